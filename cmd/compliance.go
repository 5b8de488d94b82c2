package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/domain/compliance"
	"freightdesk/internal/errs"
)

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Customs compliance: T1 forms, seals, documents and escalations",
}

var complianceSummaryCmd = &cobra.Command{
	Use:   "summary <shipment-id>",
	Short: "Show T1 forms and seals of a shipment with the latest of each",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		summary, err := svc.Compliance.Summary(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, summary, func() table {
			out := table{header: []string{"kind", "id", "number", "state", "band", "created"}}
			for _, form := range summary.T1Forms {
				out.add("t1", itoa(form.ID), form.FormNumber, form.Status.Label(), form.Status.Band().String(), form.CreatedAt.Display(dateTimeLayout, "-"))
			}
			for _, seal := range summary.Seals {
				integrity := seal.Integrity()
				out.add("seal", itoa(seal.ID), seal.SealNumber, integrity.Label, integrity.Band.String(), seal.CreatedAt.Display(dateTimeLayout, "-"))
			}
			return out
		})
	}),
}

var complianceT1Cmd = &cobra.Command{
	Use:   "t1",
	Short: "Generate and review T1 transit forms",
}

var complianceT1GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a T1 form for a shipment",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		shipmentID, _ := cmd.Flags().GetInt64("shipment")
		transporter, _ := cmd.Flags().GetString("transporter")
		tin, _ := cmd.Flags().GetString("tin")
		vehicle, _ := cmd.Flags().GetString("vehicle")
		goods, _ := cmd.Flags().GetString("goods")
		declaration, _ := cmd.Flags().GetString("declaration")

		form, err := svc.Compliance.GenerateT1(cmd.Context(), compliance.T1Request{
			ShipmentID:               shipmentID,
			TransporterName:          transporter,
			TransporterTIN:           tin,
			VehicleRegistration:      vehicle,
			GoodsDescription:         goods,
			CustomsDeclarationNumber: declaration,
		})
		if err != nil {
			return errs.Wrap(err, "generate t1 form")
		}
		return renderT1(cmd, form)
	}),
}

var complianceT1GetCmd = &cobra.Command{
	Use:   "get <form-id>",
	Short: "Show a T1 form",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "form id")
		if err != nil {
			return err
		}
		form, err := svc.Compliance.GetT1(cmd.Context(), id)
		if err != nil {
			return err
		}
		return renderT1(cmd, form)
	}),
}

var complianceT1MarkCmd = &cobra.Command{
	Use:   "mark <form-id>",
	Short: "Set the review status of a T1 form",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "form id")
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("status")
		status, err := compliance.ParseT1Status(raw)
		if err != nil {
			return err
		}
		form, err := svc.Compliance.MarkT1Status(cmd.Context(), id, status)
		if err != nil {
			return errs.Wrap(err, "mark t1 status")
		}
		return renderT1(cmd, form)
	}),
}

var complianceT1MarkLatestCmd = &cobra.Command{
	Use:   "mark-latest <shipment-id>",
	Short: "Set the status of the shipment's latest T1 form",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		ctx := cmd.Context()
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("status")
		status, err := compliance.ParseT1Status(raw)
		if err != nil {
			return err
		}

		target, err := svc.Shipments.Get(ctx, id)
		if err != nil {
			return err
		}
		form, err := svc.Compliance.MarkLatestT1Status(ctx, target, status)
		if err != nil {
			return errs.Wrap(err, "mark latest t1 status")
		}
		return renderT1(cmd, form)
	}),
}

var complianceSealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Record and list container seals",
}

var complianceSealCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a seal on a shipment",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		shipmentID, _ := cmd.Flags().GetInt64("shipment")
		number, _ := cmd.Flags().GetString("number")
		sealType, _ := cmd.Flags().GetString("type")
		location, _ := cmd.Flags().GetString("location")

		seal, err := svc.Compliance.CreateSeal(cmd.Context(), compliance.SealRequest{
			ShipmentID:      shipmentID,
			SealNumber:      number,
			SealType:        sealType,
			AppliedLocation: location,
		})
		if err != nil {
			return errs.Wrap(err, "create seal")
		}
		return render(cmd, seal, func() table {
			return sealTable([]compliance.Seal{seal})
		})
	}),
}

var complianceSealListCmd = &cobra.Command{
	Use:   "list <shipment-id>",
	Short: "List seals of a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		seals, err := svc.Compliance.ListSeals(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, seals, func() table {
			return sealTable(seals)
		})
	}),
}

var complianceDocsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Upload and list compliance documents",
}

var complianceDocsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document for a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		path := cmd.Flags().Arg(0)
		shipmentID, _ := cmd.Flags().GetInt64("shipment")
		documentType, _ := cmd.Flags().GetString("type")
		title, _ := cmd.Flags().GetString("title")
		if strings.TrimSpace(title) == "" {
			title = filepath.Base(path)
		}

		file, err := os.Open(path)
		if err != nil {
			return errs.Wrapf(err, "open document %q", path)
		}
		defer file.Close()

		document, err := svc.Compliance.UploadDocument(cmd.Context(), compliance.DocumentUpload{
			ShipmentID:   shipmentID,
			DocumentType: documentType,
			Title:        title,
			FileName:     filepath.Base(path),
			Content:      file,
		})
		if err != nil {
			return errs.Wrap(err, "upload document")
		}
		return render(cmd, document, func() table {
			return documentTable([]compliance.Document{document})
		})
	}),
}

var complianceDocsListCmd = &cobra.Command{
	Use:   "list <shipment-id>",
	Short: "List documents of a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "shipment id")
		if err != nil {
			return err
		}
		documents, err := svc.Compliance.ListDocuments(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, documents, func() table {
			return documentTable(documents)
		})
	}),
}

var complianceEscalateCmd = &cobra.Command{
	Use:   "escalate",
	Short: "Escalate a compliance issue on a shipment",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		shipmentID, _ := cmd.Flags().GetInt64("shipment")
		issueType, _ := cmd.Flags().GetString("issue-type")
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")

		record, err := svc.Compliance.Escalate(cmd.Context(), compliance.Escalation{
			ShipmentID:  shipmentID,
			IssueType:   issueType,
			Description: description,
			Priority:    compliance.Priority(priority),
		})
		if err != nil {
			return errs.Wrap(err, "escalate compliance issue")
		}
		return render(cmd, record, func() table {
			return fields(
				"id", itoa(record.ID),
				"shipment_id", itoa(record.ShipmentID),
				"issue_type", record.IssueType,
				"priority", string(record.Priority),
				"status", firstNonBlank(record.Status, "-"),
			)
		})
	}),
}

func entryCmd(kind compliance.EntryKind) *cobra.Command {
	command := &cobra.Command{
		Use:   string(kind),
		Short: "Generate an " + strings.ToUpper(string(kind)) + " customs entry for a shipment",
		RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
			shipmentID, _ := cmd.Flags().GetInt64("shipment")
			declaration, _ := cmd.Flags().GetString("declaration")
			notes, _ := cmd.Flags().GetString("notes")
			request := compliance.EntryRequest{ShipmentID: shipmentID, DeclarationNumber: declaration, Notes: notes}

			generate := svc.Compliance.GenerateIM4
			if kind == compliance.EntryIM7 {
				generate = svc.Compliance.GenerateIM7
			}
			document, err := generate(cmd.Context(), request)
			if err != nil {
				return errs.Wrapf(err, "generate %s entry", kind)
			}
			return render(cmd, document, func() table {
				return fields(
					"id", itoa(document.ID),
					"shipment_id", itoa(document.ShipmentID),
					"document_number", document.DocumentNumber,
					"status", firstNonBlank(document.Status, "-"),
				)
			})
		}),
	}
	command.Flags().Int64("shipment", 0, "Shipment id")
	command.Flags().String("declaration", "", "Customs declaration number")
	command.Flags().String("notes", "", "Notes")
	return command
}

func renderT1(cmd *cobra.Command, form compliance.T1Form) error {
	return render(cmd, form, func() table {
		return fields(
			"id", itoa(form.ID),
			"shipment_id", itoa(form.ShipmentID),
			"form_number", form.FormNumber,
			"transporter", form.TransporterName,
			"vehicle", form.VehicleRegistration,
			"declaration", form.CustomsDeclarationNumber,
			"status", form.Status.Label(),
			"band", form.Status.Band().String(),
			"created", form.CreatedAt.Display(dateTimeLayout, "-"),
		)
	})
}

func sealTable(seals []compliance.Seal) table {
	out := table{header: []string{"id", "shipment", "number", "type", "location", "integrity", "created"}}
	for _, seal := range seals {
		out.add(
			itoa(seal.ID),
			itoa(seal.ShipmentID),
			seal.SealNumber,
			firstNonBlank(seal.SealType, "-"),
			orDash(seal.AppliedLocation),
			seal.Integrity().Label,
			seal.CreatedAt.Display(dateTimeLayout, "-"),
		)
	}
	return out
}

func documentTable(documents []compliance.Document) table {
	out := table{header: []string{"id", "shipment", "type", "title", "file", "created"}}
	for _, document := range documents {
		out.add(
			itoa(document.ID),
			itoa(document.ShipmentID),
			document.DocumentType,
			document.Title,
			firstNonBlank(document.FileName, document.FileURL, "-"),
			document.CreatedAt.Display(dateTimeLayout, "-"),
		)
	}
	return out
}

func init() {
	rootCmd.AddCommand(complianceCmd)
	complianceCmd.AddCommand(
		complianceSummaryCmd,
		complianceT1Cmd,
		complianceSealCmd,
		complianceDocsCmd,
		complianceEscalateCmd,
		entryCmd(compliance.EntryIM4),
		entryCmd(compliance.EntryIM7),
	)
	complianceT1Cmd.AddCommand(complianceT1GenerateCmd, complianceT1GetCmd, complianceT1MarkCmd, complianceT1MarkLatestCmd)
	complianceSealCmd.AddCommand(complianceSealCreateCmd, complianceSealListCmd)
	complianceDocsCmd.AddCommand(complianceDocsUploadCmd, complianceDocsListCmd)

	complianceT1GenerateCmd.Flags().Int64("shipment", 0, "Shipment id")
	complianceT1GenerateCmd.Flags().String("transporter", "", "Transporter name")
	complianceT1GenerateCmd.Flags().String("tin", "", "Transporter TIN")
	complianceT1GenerateCmd.Flags().String("vehicle", "", "Vehicle registration")
	complianceT1GenerateCmd.Flags().String("goods", "", "Goods description")
	complianceT1GenerateCmd.Flags().String("declaration", "", "Customs declaration number")

	complianceT1MarkCmd.Flags().String("status", "", "New status (pending|submitted|under_review|approved|rejected)")
	complianceT1MarkLatestCmd.Flags().String("status", "", "New status (pending|submitted|under_review|approved|rejected)")

	complianceSealCreateCmd.Flags().Int64("shipment", 0, "Shipment id")
	complianceSealCreateCmd.Flags().String("number", "", "Seal number")
	complianceSealCreateCmd.Flags().String("type", "", "Seal type")
	complianceSealCreateCmd.Flags().String("location", "", "Where the seal was applied")

	complianceDocsUploadCmd.Flags().Int64("shipment", 0, "Shipment id")
	complianceDocsUploadCmd.Flags().String("type", "", "Document type")
	complianceDocsUploadCmd.Flags().String("title", "", "Document title (default: file name)")

	complianceEscalateCmd.Flags().Int64("shipment", 0, "Shipment id")
	complianceEscalateCmd.Flags().String("issue-type", "", "Issue type")
	complianceEscalateCmd.Flags().String("description", "", "Issue description")
	complianceEscalateCmd.Flags().String("priority", "", "Priority (low|medium|high, default medium)")
}
