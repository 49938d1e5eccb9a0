package cli

import (
	"fmt"
	"strconv"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/spf13/cobra"
)

func CodeCmd() *cobra.Command {
	codeCmd := &cobra.Command{
		Use:   "code",
		Short: "Format or parse reference codes",
	}

	formatCmd := &cobra.Command{
		Use:   "format [issue|dispute|claim] [sequence]",
		Short: "Print the code for a counter value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("sequence must be an integer: %w", err)
			}
			code, err := domain.FormatCode(domain.CodeKind(args[0]), seq)
			if err != nil {
				return err
			}
			fmt.Println(code)
			return nil
		},
	}

	parseCmd := &cobra.Command{
		Use:   "parse [code]",
		Short: "Print the kind and counter value of a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, seq, err := domain.ParseCode(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %d\n", kind, seq)
			return nil
		},
	}

	codeCmd.AddCommand(formatCmd, parseCmd)
	return codeCmd
}
