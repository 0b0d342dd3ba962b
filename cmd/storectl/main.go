// storectl interroge le catalogue et le chatbot DotScent sans démarrer le serveur.
package main

import (
	"fmt"
	"os"
	"strings"

	"dotscent_back_end/internal/catalog"
	"dotscent_back_end/internal/chat"
	"dotscent_back_end/internal/checkout"
	"dotscent_back_end/internal/config"
	"dotscent_back_end/internal/models"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "DotScent storefront tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newProductsCmd(), newAskCmd(), newContactLinkCmd())
	return root
}

func newProductsCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Long: `Prints the product catalog, optionally filtered by category.

Example:
  storectl products --category unisex`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			products, err := cat.ByCategory(models.Category(category))
			if err != nil {
				return fmt.Errorf("%w: %q (men, women, unisex, all)", err, category)
			}

			out := cmd.OutOrStdout()
			for _, p := range products {
				mark := ""
				if p.Featured {
					mark = " ★"
				}
				fmt.Fprintf(out, "%3d  %-10s %-7s %8s  %s%s\n", p.ID, p.Name, p.Category, chat.FormatPrice(p.Price), p.Volume, mark)
			}
			fmt.Fprintf(out, "%d product(s)\n", len(products))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "men, women, unisex or all")
	return cmd
}

func newAskCmd() *cobra.Command {
	var showRule bool
	cmd := &cobra.Command{
		Use:   "ask [message...]",
		Short: "Ask the shop assistant a question",
		Long: `Runs one message through the chat assistant and prints its reply.

Example:
  storectl ask "how much is Jamaal"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			reply := chat.NewResponder(cat, chat.DefaultBusinessInfo()).Respond(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, reply.Text)
			if showRule {
				fmt.Fprintf(out, "\n[rule: %s]\n", reply.Rule)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showRule, "rule", true, "print which rule answered")
	return cmd
}

func newContactLinkCmd() *cobra.Command {
	var (
		form   models.ContactForm
		number string
		qrPath string
	)
	cmd := &cobra.Command{
		Use:   "contact-link",
		Short: "Build the WhatsApp link of a contact message",
		Long: `Builds the wa.me link the contact page would open.

Example:
  storectl contact-link --name Sara --email sara@example.com --message "Gift boxes?"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if errs := checkout.ValidateContact(form); errs != nil {
				return errs
			}
			link := checkout.WhatsAppLink(number, checkout.ContactMessage(form))
			fmt.Fprintln(cmd.OutOrStdout(), link)

			if qrPath != "" {
				png, err := checkout.QRCode(link, 256)
				if err != nil {
					return fmt.Errorf("QR code: %w", err)
				}
				if err := os.WriteFile(qrPath, png, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", qrPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&form.Email, "email", "", "customer e-mail")
	cmd.Flags().StringVar(&form.Message, "message", "", "message body")
	cmd.Flags().StringVar(&number, "number", envOr("WHATSAPP_NUMBER", config.DefaultWhatsAppNumber), "shop WhatsApp number")
	cmd.Flags().StringVar(&qrPath, "qr", "", "also write the link as a PNG QR code")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
