package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// Сервис описан вручную: сообщения идут через json-кодек, без protoc.

func unary[Req any, Resp any](name string, call func(DisputeServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(DisputeServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var DisputeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DisputeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateIssue", DisputeServiceServer.CreateIssue),
		unary("AcceptIssue", DisputeServiceServer.AcceptIssue),
		unary("RejectIssue", DisputeServiceServer.RejectIssue),
		unary("GetIssue", DisputeServiceServer.GetIssue),
		unary("CreateDispute", DisputeServiceServer.CreateDispute),
		unary("SubmitSellerResponse", DisputeServiceServer.SubmitSellerResponse),
		unary("CreateResolution", DisputeServiceServer.CreateResolution),
		unary("CloseDispute", DisputeServiceServer.CloseDispute),
		unary("AddDisputeMessage", DisputeServiceServer.AddDisputeMessage),
		unary("GetDispute", DisputeServiceServer.GetDispute),
		unary("EscalateDispute", DisputeServiceServer.EscalateDispute),
		unary("AssignClaim", DisputeServiceServer.AssignClaim),
		unary("SubmitAdminDecision", DisputeServiceServer.SubmitAdminDecision),
		unary("SubmitPartyAnswer", DisputeServiceServer.SubmitPartyAnswer),
		unary("CloseClaim", DisputeServiceServer.CloseClaim),
		unary("GetClaim", DisputeServiceServer.GetClaim),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roundbuy/dispute/v1/dispute.json",
}

func RegisterDisputeServiceServer(s grpc.ServiceRegistrar, srv DisputeServiceServer) {
	s.RegisterService(&DisputeService_ServiceDesc, srv)
}
