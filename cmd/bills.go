package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/frahmantamala/billed/internal/bills"
	"github.com/frahmantamala/billed/internal/newbill"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	billsOrder string
	billsJSON  bool

	newBillFile       string
	newBillType       string
	newBillName       string
	newBillDate       string
	newBillAmount     string
	newBillVAT        string
	newBillPct        string
	newBillCommentary string
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Employee bills",
}

var billsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bills of the connected user",
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := bills.ParseOrder(billsOrder)
		if err != nil {
			return err
		}
		return withDependencies("bills list", func(ctx context.Context, deps *Dependencies) error {
			list, err := billsService(ctx, deps, order).FetchAndFormat(ctx)
			if err != nil {
				return err
			}
			if billsJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			return printBills(list)
		})
	},
}

var billsPreviewCmd = &cobra.Command{
	Use:   "preview <file-url>",
	Short: "Show a receipt in the preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies("bills preview", func(ctx context.Context, deps *Dependencies) error {
			billsService(ctx, deps, bills.OrderStore).PreviewReceipt(ctx, ui.Attributes{bills.AttrBillURL: args[0]})
			return nil
		})
	},
}

var billsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Upload a receipt and submit a new bill",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies("bills new", func(ctx context.Context, deps *Dependencies) error {
			billsService(ctx, deps, bills.OrderStore).NewBill(ctx)

			input := &ui.PathInput{Path: newBillFile}
			service := newbill.NewService(newbill.Deps{
				Store:     deps.Store,
				Storage:   deps.Storage,
				Navigator: deps.Navigator(),
				Alerter:   deps.Console,
				FileInput: input,
				Events:    deps.Events,
				Logger:    logger.From(ctx),
			})

			if newBillFile != "" {
				f, err := os.Open(newBillFile)
				if err != nil {
					return fmt.Errorf("failed to open receipt: %w", err)
				}
				defer f.Close()

				if err := service.HandleFileSelected(ctx, newbill.File{Name: filepath.Base(newBillFile), Content: f}); err != nil {
					return err
				}
			}

			return service.HandleSubmit(ctx, ui.Values{
				newbill.FieldType:       newBillType,
				newbill.FieldName:       newBillName,
				newbill.FieldDate:       newBillDate,
				newbill.FieldAmount:     newBillAmount,
				newbill.FieldVAT:        newBillVAT,
				newbill.FieldPct:        newBillPct,
				newbill.FieldCommentary: newBillCommentary,
			})
		})
	},
}

func billsService(ctx context.Context, deps *Dependencies, order bills.Order) *bills.Service {
	return bills.NewService(bills.Deps{
		Store:     deps.Store,
		Modal:     deps.Console,
		Navigator: deps.Navigator(),
		Order:     order,
		Logger:    logger.From(ctx),
	})
}

func printBills(list []bills.DisplayBill) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNOM\tDATE\tMONTANT\tSTATUT\tJUSTIFICATIF")
	for _, b := range list {
		amount := "-"
		if b.Amount != nil {
			amount = strconv.Itoa(*b.Amount) + " €"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", b.Type, b.Name, b.Date, amount, b.Status, b.FileURL)
	}
	return w.Flush()
}

func init() {
	billsListCmd.Flags().StringVar(&billsOrder, "order", "store", "store, asc or desc")
	billsListCmd.Flags().BoolVar(&billsJSON, "json", false, "print the bills as JSON")

	billsNewCmd.Flags().StringVarP(&newBillFile, "file", "f", "", "receipt image (.jpg, .jpeg, .png)")
	billsNewCmd.Flags().StringVar(&newBillType, "type", "", "expense type")
	billsNewCmd.Flags().StringVar(&newBillName, "name", "", "expense name")
	billsNewCmd.Flags().StringVar(&newBillDate, "date", "", "expense date, YYYY-MM-DD")
	billsNewCmd.Flags().StringVar(&newBillAmount, "amount", "", "amount incl. VAT, in euros")
	billsNewCmd.Flags().StringVar(&newBillVAT, "vat", "", "VAT amount")
	billsNewCmd.Flags().StringVar(&newBillPct, "pct", "", "VAT rate, defaults to 20")
	billsNewCmd.Flags().StringVar(&newBillCommentary, "commentary", "", "free comment")

	billsCmd.AddCommand(billsListCmd)
	billsCmd.AddCommand(billsPreviewCmd)
	billsCmd.AddCommand(billsNewCmd)
}
