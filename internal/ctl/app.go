package ctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/auth"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/services"
)

// ErrUsage is returned for unknown commands or missing arguments.
var ErrUsage = errors.New("usage error")

const usage = `Usage: ledgerctl [-u url] [-t token] [-timeout d] <command> [args]

Commands:
  token [-sub name] [-ttl d]   mint an admin token (prompts for the JWT secret)
  donations                    list donations
  freeze <id>                  freeze a donation
  verify-ngo <id> [-reject]    verify or reject an NGO
  reconcile                    list donations whose ledger state disagrees
  upload <file>                upload evidence through a presigned URL
`

// api is the part of Client the commands use.
type api interface {
	Donations(ctx context.Context) ([]*models.Donation, error)
	Freeze(ctx context.Context, id int64) (*models.Donation, error)
	SetNGOVerification(ctx context.Context, id int64, verified bool) (*models.NGO, error)
	Reconcile(ctx context.Context) (*services.ReconciliationReport, error)
	Presign(ctx context.Context) (*services.PresignResult, error)
	PutObject(ctx context.Context, url, contentType string, body []byte) error
}

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

type App struct {
	config *Config
	client api
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func NewApp(c *Config, in io.Reader, out, errOut io.Writer) *App {
	return &App{
		config: c,
		client: NewClient(c.ServerURL, c.Token, c.Timeout),
		in:     in,
		out:    out,
		errOut: errOut,
	}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "token":
		return a.token(rest)
	case "donations":
		return a.donations(ctx)
	case "freeze":
		return a.freeze(ctx, rest)
	case "verify-ngo":
		return a.verifyNGO(ctx, rest)
	case "reconcile":
		return a.reconcile(ctx)
	case "upload":
		return a.upload(ctx, rest)
	case "help", "-h", "-help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", cmd, usage)
		return ErrUsage
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing id", ErrUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrUsage, args[0])
	}
	return id, nil
}

func (a *App) token(args []string) error {
	fs := a.flagSet("token")
	sub := fs.String("sub", "admin", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	secret, err := readSecret("JWT secret: ", a.in, a.errOut)
	if err != nil {
		return fmt.Errorf("error reading secret: %w", err)
	}
	if len(secret) == 0 {
		return fmt.Errorf("%w: empty secret", ErrUsage)
	}

	tok, err := auth.GenerateToken(*sub, common.RoleAdmin, secret, *ttl)
	for i := range secret {
		secret[i] = 0
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tok)
	return nil
}

func (a *App) donations(ctx context.Context) error {
	list, err := a.client.Donations(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tAMOUNT\tNGO\tCONFIRMED\tEVIDENCE")
	for _, d := range list {
		evidence := "-"
		if d.EvidenceURL != nil {
			evidence = *d.EvidenceURL
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%t\t%s\n", d.ID, d.Status, d.Amount.String(), d.NGOID, d.TxConfirmed, evidence)
	}
	return tw.Flush()
}

func (a *App) freeze(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	d, err := a.client.Freeze(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "donation %d is %s\n", d.ID, d.Status)
	return nil
}

func (a *App) verifyNGO(ctx context.Context, args []string) error {
	fs := a.flagSet("verify-ngo")
	reject := fs.Bool("reject", false, "reject instead of verify")

	// Accept the flag before or after the id.
	id, err := parseID(args)
	if err == nil {
		args = args[1:]
	}
	if perr := fs.Parse(args); perr != nil {
		return fmt.Errorf("%w: %v", ErrUsage, perr)
	}
	if err != nil {
		if id, err = parseID(fs.Args()); err != nil {
			return err
		}
	}

	n, err := a.client.SetNGOVerification(ctx, id, !*reject)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ngo %d is %s\n", n.ID, n.VerificationStatus)
	return nil
}

func (a *App) reconcile(ctx context.Context) error {
	report, err := a.client.Reconcile(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(report)
}

func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing file", ErrUsage)
	}
	body, err := readFile(args[0])
	if err != nil {
		return err
	}

	p, err := a.client.Presign(ctx)
	if err != nil {
		return err
	}
	if err := a.client.PutObject(ctx, p.URL, http.DetectContentType(body), body); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "uploaded %d bytes as %s\n", len(body), p.Key)
	return nil
}
