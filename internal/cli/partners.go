package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	odoocommand "github.com/goliatone/go-odoo/command"
	"github.com/goliatone/go-odoo/core"
	odooquery "github.com/goliatone/go-odoo/query"
	"github.com/spf13/cobra"
)

func (a *app) partnerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partner",
		Short: "Find or create contacts (res.partner)",
	}

	var get odooquery.GetPartnerMessage
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Find one partner by id, phone or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			partner, err := runQuery[odooquery.GetPartnerMessage, core.Record](a, cmd, get)
			if err != nil {
				return err
			}
			return a.print(successEnvelope("partner", partner))
		},
	}
	getCmd.Flags().Int64Var(&get.ID, "id", 0, "partner id")
	getCmd.Flags().StringVar(&get.Phone, "phone", "", "partner phone")
	getCmd.Flags().StringVar(&get.Email, "email", "", "partner email")
	getCmd.MarkFlagsMutuallyExclusive("id", "phone", "email")

	var create core.CreatePartnerInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Return the partner with this phone or create it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := runCommand[odoocommand.CreatePartnerMessage, core.PartnerResult](a, cmd, odoocommand.CreatePartnerMessage{Input: create})
			if err != nil {
				return err
			}
			env := successEnvelope("partner", out.Partner)
			env["status"] = out.Status
			return a.print(env)
		},
	}
	createCmd.Flags().StringVar(&create.Name, "name", "", "partner name")
	createCmd.Flags().StringVar(&create.Phone, "phone", "", "partner phone")
	createCmd.Flags().StringVar(&create.Email, "email", "", "partner email")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("phone")

	cmd.AddCommand(getCmd, createCmd)
	return cmd
}

func (a *app) leadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Create CRM opportunities (crm.lead)",
	}

	var input core.CreateLeadInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open an opportunity for a partner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lead, err := runCommand[odoocommand.CreateLeadMessage, core.Record](a, cmd, odoocommand.CreateLeadMessage{Input: input})
			if err != nil {
				return err
			}
			return a.print(successEnvelope("lead", lead))
		},
	}
	createCmd.Flags().Int64Var(&input.PartnerID, "partner-id", 0, "partner id")
	createCmd.Flags().StringVar(&input.Summary, "summary", "", "conversation summary stored as the description")
	createCmd.Flags().StringVar(&input.Email, "email", "", "contact email")
	_ = createCmd.MarkFlagRequired("partner-id")

	cmd.AddCommand(createCmd)
	return cmd
}

func (a *app) attachmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachment",
		Short: "Attach files to records (ir.attachment)",
	}

	var (
		input core.CreateAttachmentInput
		file  string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Upload a file and link it to a record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(file) != "" {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("cli: read attachment %s: %w", file, err)
				}
				input.DataBase64 = base64.StdEncoding.EncodeToString(content)
			}
			attachment, err := runCommand[odoocommand.CreateAttachmentMessage, core.Record](a, cmd, odoocommand.CreateAttachmentMessage{Input: input})
			if err != nil {
				return err
			}
			return a.print(successEnvelope("attachment", attachment))
		},
	}
	createCmd.Flags().StringVar(&input.Name, "name", "", "attachment file name")
	createCmd.Flags().StringVar(&input.ResModel, "res-model", "", "model of the record to attach to")
	createCmd.Flags().Int64Var(&input.ResID, "res-id", 0, "id of the record to attach to")
	createCmd.Flags().StringVar(&file, "file", "", "file to upload")
	createCmd.Flags().StringVar(&input.DataBase64, "data", "", "base64 content, used when --file is not set")
	createCmd.MarkFlagsMutuallyExclusive("file", "data")
	createCmd.MarkFlagsOneRequired("file", "data")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("res-model")
	_ = createCmd.MarkFlagRequired("res-id")

	cmd.AddCommand(createCmd)
	return cmd
}
