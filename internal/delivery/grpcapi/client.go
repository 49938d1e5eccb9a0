package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// DisputeServiceClient calls the service with the json content subtype.
type DisputeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDisputeServiceClient(cc grpc.ClientConnInterface) *DisputeServiceClient {
	return &DisputeServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DisputeServiceClient) CreateIssue(ctx context.Context, in *CreateIssueRequest, opts ...grpc.CallOption) (*IssueReply, error) {
	return invoke[IssueReply](ctx, c.cc, "CreateIssue", in, opts)
}

func (c *DisputeServiceClient) AcceptIssue(ctx context.Context, in *RespondIssueRequest, opts ...grpc.CallOption) (*IssueReply, error) {
	return invoke[IssueReply](ctx, c.cc, "AcceptIssue", in, opts)
}

func (c *DisputeServiceClient) RejectIssue(ctx context.Context, in *RespondIssueRequest, opts ...grpc.CallOption) (*RejectIssueReply, error) {
	return invoke[RejectIssueReply](ctx, c.cc, "RejectIssue", in, opts)
}

func (c *DisputeServiceClient) GetIssue(ctx context.Context, in *GetByCodeRequest, opts ...grpc.CallOption) (*IssueReply, error) {
	return invoke[IssueReply](ctx, c.cc, "GetIssue", in, opts)
}

func (c *DisputeServiceClient) CreateDispute(ctx context.Context, in *CreateDisputeRequest, opts ...grpc.CallOption) (*DisputeReply, error) {
	return invoke[DisputeReply](ctx, c.cc, "CreateDispute", in, opts)
}

func (c *DisputeServiceClient) SubmitSellerResponse(ctx context.Context, in *SellerResponseRequest, opts ...grpc.CallOption) (*DisputeReply, error) {
	return invoke[DisputeReply](ctx, c.cc, "SubmitSellerResponse", in, opts)
}

func (c *DisputeServiceClient) CreateResolution(ctx context.Context, in *CreateResolutionRequest, opts ...grpc.CallOption) (*ResolutionReply, error) {
	return invoke[ResolutionReply](ctx, c.cc, "CreateResolution", in, opts)
}

func (c *DisputeServiceClient) CloseDispute(ctx context.Context, in *CloseDisputeRequest, opts ...grpc.CallOption) (*DisputeReply, error) {
	return invoke[DisputeReply](ctx, c.cc, "CloseDispute", in, opts)
}

func (c *DisputeServiceClient) AddDisputeMessage(ctx context.Context, in *AddDisputeMessageRequest, opts ...grpc.CallOption) (*MessageReply, error) {
	return invoke[MessageReply](ctx, c.cc, "AddDisputeMessage", in, opts)
}

func (c *DisputeServiceClient) GetDispute(ctx context.Context, in *GetByCodeRequest, opts ...grpc.CallOption) (*DisputeReply, error) {
	return invoke[DisputeReply](ctx, c.cc, "GetDispute", in, opts)
}

func (c *DisputeServiceClient) EscalateDispute(ctx context.Context, in *EscalateDisputeRequest, opts ...grpc.CallOption) (*ClaimReply, error) {
	return invoke[ClaimReply](ctx, c.cc, "EscalateDispute", in, opts)
}

func (c *DisputeServiceClient) AssignClaim(ctx context.Context, in *AssignClaimRequest, opts ...grpc.CallOption) (*ClaimReply, error) {
	return invoke[ClaimReply](ctx, c.cc, "AssignClaim", in, opts)
}

func (c *DisputeServiceClient) SubmitAdminDecision(ctx context.Context, in *AdminDecisionRequest, opts ...grpc.CallOption) (*ClaimReply, error) {
	return invoke[ClaimReply](ctx, c.cc, "SubmitAdminDecision", in, opts)
}

func (c *DisputeServiceClient) SubmitPartyAnswer(ctx context.Context, in *PartyAnswerRequest, opts ...grpc.CallOption) (*ClaimReply, error) {
	return invoke[ClaimReply](ctx, c.cc, "SubmitPartyAnswer", in, opts)
}

func (c *DisputeServiceClient) CloseClaim(ctx context.Context, in *CloseClaimRequest, opts ...grpc.CallOption) (*ClaimReply, error) {
	return invoke[ClaimReply](ctx, c.cc, "CloseClaim", in, opts)
}

func (c *DisputeServiceClient) GetClaim(ctx context.Context, in *GetByCodeRequest, opts ...grpc.CallOption) (*ClaimReply, error) {
	return invoke[ClaimReply](ctx, c.cc, "GetClaim", in, opts)
}
