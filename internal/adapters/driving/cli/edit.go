package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/logger"
)

var editFlags struct {
	newType   string
	id        string
	site      string
	title     string
	data      string
	clear     bool
	bot       bool
	baseRevID int64
	summary   string
	json      bool
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Create or modify an entity",
	Long: `Writes JSON entity data with the wbeditentity action.

Select the entity with exactly one of --new, --id, or --site together with
--title. The data is given inline, as @file, or as - to read stdin.

Unless --clear is given, existing data is kept: labels, descriptions and
aliases are replaced per language and statements are added.`,
	Example: `  wbedit edit --id Q4115189 --data '{"labels":{"en":{"language":"en","value":"Sandbox"}}}'
  wbedit edit --new item --data @item.json --summary "import"
  wbedit edit --site enwiki --title "Douglas Adams" --data - < claims.json`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	f := editCmd.Flags()
	f.StringVar(&editFlags.newType, "new", "", "Create a new entity of this type (item, property)")
	f.StringVar(&editFlags.id, "id", "", "ID of the entity to edit")
	f.StringVar(&editFlags.site, "site", "", "Site of the page linked to the entity (with --title)")
	f.StringVar(&editFlags.title, "title", "", "Title of the page linked to the entity (with --site)")
	f.StringVarP(&editFlags.data, "data", "d", "", "Entity JSON, @file, or - for stdin")
	f.BoolVar(&editFlags.clear, "clear", false, "Delete existing data before writing")
	f.BoolVar(&editFlags.bot, "bot", false, "Flag the edit as a bot edit")
	f.Int64Var(&editFlags.baseRevID, "baserevid", 0, "Base revision for edit conflict detection")
	f.StringVarP(&editFlags.summary, "summary", "m", "", "Edit summary")
	f.BoolVar(&editFlags.json, "json", false, "Print the returned entity as JSON")
	_ = editCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, _ []string) error {
	if entityEditor == nil {
		return errors.New("edit service not configured")
	}

	data, err := readData(cmd, editFlags.data)
	if err != nil {
		return err
	}

	sel := domain.EntitySelector{
		NewType: editFlags.newType,
		ID:      editFlags.id,
		Site:    editFlags.site,
		Title:   editFlags.title,
	}
	if err := sel.Validate(); err != nil {
		return err
	}

	logger.Section("Edit " + sel.String())

	ctx := context.Background()
	if err := ensureSession(ctx, cmd); err != nil {
		return err
	}

	opts := domain.EditOptions{
		Clear:     editFlags.clear,
		Bot:       editFlags.bot,
		BaseRevID: editFlags.baseRevID,
		Summary:   editFlags.summary,
	}

	result, err := entityEditor.EditEntity(ctx, sel, data, opts)
	if err != nil {
		if domain.IsEditConflict(err) {
			return fmt.Errorf("edit conflict on %s since revision %d: %w", sel, opts.BaseRevID, err)
		}
		return fmt.Errorf("edit failed: %w", err)
	}

	return printEditResult(cmd, result)
}

func printEditResult(cmd *cobra.Command, result *domain.EditResult) error {
	switch result.Status {
	case domain.EditApplied:
		doc := result.Document
		if editFlags.json {
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode entity: %w", err)
			}
			cmd.Println(string(out))
			return nil
		}
		cmd.Printf("Edited %s (revision %d)\n", doc.IRI(), doc.LastRevID)
		if label, ok := doc.Label("en"); ok {
			cmd.Printf("  Label (en): %s\n", label)
		}
		cmd.Printf("  Labels: %d  Descriptions: %d  Aliases: %d  Statements: %d  Sitelinks: %d\n",
			len(doc.Labels), len(doc.Descriptions), len(doc.Aliases), doc.StatementCount(), len(doc.Sitelinks))
		if result.Recovered {
			cmd.Println("  (response needed the empty container repair)")
		}
	case domain.EditNoEntity:
		cmd.Println("Edit accepted, but the response contained no entity document.")
	case domain.EditUndecodable:
		cmd.Printf("Edit accepted, but the returned entity could not be decoded: %v\n", result.DecodeErr)
	}
	return nil
}

// readData resolves the --data flag: inline JSON, @file, or - for stdin.
func readData(cmd *cobra.Command, arg string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case arg == "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: data is not valid JSON", domain.ErrInvalidInput)
	}
	return json.RawMessage(data), nil
}

// ensureSession logs in with the configured bot password unless an OAuth
// access token is configured or the session is already logged in.
func ensureSession(ctx context.Context, cmd *cobra.Command) error {
	if settingsService == nil || sessionService == nil {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	auth := settings.Auth
	if auth.UsesOAuth() || sessionService.IsLoggedIn() {
		return nil
	}
	if !auth.HasLogin() {
		logger.Warn("No credentials configured, editing anonymously")
		return nil
	}

	password := auth.Password
	if password == "" {
		cmd.Printf("Password for %s: ", auth.Username)
		password = readPassword(cmd)
		cmd.Println()
	}

	return sessionService.Login(ctx, auth.Username, password)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(cmd *cobra.Command) string {
	// Try to read password without echo
	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
