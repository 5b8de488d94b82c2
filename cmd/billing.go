package cmd

import (
	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/domain/billing"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Invoices and shipment cost breakdowns",
}

var billingInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "List invoices",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		status, _ := cmd.Flags().GetString("status")
		shipmentID, _ := cmd.Flags().GetInt64("shipment")
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		invoices, err := svc.Billing.ListInvoices(cmd.Context(), billing.InvoiceFilter{
			Status:     status,
			ShipmentID: shipmentID,
			Skip:       skip,
			Limit:      limit,
		})
		if err != nil {
			return err
		}
		return render(cmd, invoices, func() table { return invoicesTable(invoices) })
	}),
}

var billingInvoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Invoice operations",
}

var billingInvoiceGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the invoice for a shipment",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		shipmentID, _ := cmd.Flags().GetInt64("shipment")
		currency, _ := cmd.Flags().GetString("currency")
		notes, _ := cmd.Flags().GetString("notes")

		invoice, err := svc.Billing.GenerateInvoice(cmd.Context(), billing.InvoiceRequest{
			ShipmentID: shipmentID,
			Currency:   currency,
			Notes:      notes,
		})
		if err != nil {
			return err
		}
		return render(cmd, invoice, func() table {
			due := "-"
			if invoice.DueDate != nil {
				due = invoice.DueDate.Display("2006-01-02", "-")
			}
			return fields(
				"id", itoa(invoice.ID),
				"invoice_number", invoice.InvoiceNumber,
				"shipment_id", itoa(invoice.ShipmentID),
				"amount", invoice.Amount.StringFixed(2),
				"tax", invoice.Tax.StringFixed(2),
				"total", invoice.Total().StringFixed(2),
				"currency", invoice.Currency,
				"status", invoice.Status,
				"due_date", due,
			)
		})
	}),
}

var billingCostsCmd = &cobra.Command{
	Use:   "costs <shipment-id>",
	Short: "Show the cost breakdown of a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		shipmentID, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		costs, err := svc.Billing.CalculateCosts(cmd.Context(), shipmentID)
		if err != nil {
			return err
		}
		return render(cmd, costs, func() table {
			out := table{header: []string{"item", "amount"}}
			for _, line := range costs.Lines {
				out.add(line.Name, line.Amount.StringFixed(2))
			}
			out.add("total", costs.Total.StringFixed(2)+" "+costs.Currency)
			return out
		})
	}),
}

func invoicesTable(invoices []billing.Invoice) table {
	out := table{header: []string{"id", "number", "shipment", "total", "currency", "status", "created"}}
	for _, invoice := range invoices {
		out.add(
			itoa(invoice.ID),
			invoice.InvoiceNumber,
			itoa(invoice.ShipmentID),
			invoice.Total().StringFixed(2),
			invoice.Currency,
			invoice.Status,
			invoice.CreatedAt.Display(dateTimeLayout, "-"),
		)
	}
	return out
}

func init() {
	rootCmd.AddCommand(billingCmd)
	billingCmd.AddCommand(billingInvoicesCmd, billingInvoiceCmd, billingCostsCmd)
	billingInvoiceCmd.AddCommand(billingInvoiceGenerateCmd)

	billingInvoicesCmd.Flags().String("status", "", "Filter by invoice status")
	billingInvoicesCmd.Flags().Int64("shipment", 0, "Filter by shipment id")
	billingInvoicesCmd.Flags().Int("skip", 0, "Number of invoices to skip")
	billingInvoicesCmd.Flags().Int("limit", 50, "Maximum number of invoices")

	billingInvoiceGenerateCmd.Flags().Int64("shipment", 0, "Shipment id")
	billingInvoiceGenerateCmd.Flags().String("currency", "", "Currency code (default USD)")
	billingInvoiceGenerateCmd.Flags().String("notes", "", "Invoice notes")
	_ = billingInvoiceGenerateCmd.MarkFlagRequired("shipment")
}
