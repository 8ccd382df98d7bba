// Package admin implements the placekeeper maintenance commands. They work
// straight against the database and object storage, without the HTTP API.
package admin

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/netx"
	"github.com/dmitrijs2005/placekeeper/internal/server/config"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/placekeeper/internal/server/services"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate   apply database migrations
  adduser   create a user account (prompts for name, email and password)
  users     list user accounts
  upload    upload an image file: upload <place|user> <path> [flags]
`

var ErrUsage = errors.New("invalid usage")

var (
	openStore = repomanager.Open

	newPresigner = func(cfg *config.Config) presigner { return services.NewImageService(cfg) }

	putObject = netx.PutPresigned
)

type presigner interface {
	PresignUpload(ctx context.Context, kind string) (*services.UploadTarget, error)
}

type App struct {
	in     *bufio.Reader
	out    io.Writer
	logger logging.Logger
}

func NewApp(in io.Reader, out io.Writer, logger logging.Logger) *App {
	return &App{in: bufio.NewReader(in), out: out, logger: logger.With("module", "admin")}
}

// Run executes the command named by args[0]. The remaining args are
// parsed as server configuration flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	case "migrate", "adduser", "users":
	case "upload":
		return a.upload(ctx, rest)
	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n%s", cmd, usage)
		return ErrUsage
	}

	cfg, err := config.Load(rest)
	if err != nil {
		return err
	}

	db, rm, err := openStore(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	switch cmd {
	case "migrate":
		return a.migrate(ctx, db, rm)
	case "adduser":
		return a.addUser(ctx, services.NewUserService(db, rm, a.logger, cfg))
	default:
		return a.listUsers(ctx, services.NewUserService(db, rm, a.logger, cfg))
	}
}

func (a *App) migrate(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager) error {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}
	a.logger.Info(ctx, "migrations applied")
	fmt.Fprintln(a.out, "Migrations applied.")
	return nil
}

func (a *App) addUser(ctx context.Context, us *services.UserService) error {
	name, err := getSimpleText(a.in, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	u, err := us.Signup(ctx, services.SignupInput{
		Name:     name,
		Email:    email,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created user %s (%s)\n", u.ID, u.Email)
	return nil
}

func (a *App) listUsers(ctx context.Context, us *services.UserService) error {
	list, err := us.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPLACES")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", u.ID, u.Name, u.Email, len(u.PlaceIDs))
	}
	return tw.Flush()
}

// upload presigns a PUT for the given image kind, sends the file and
// prints the public URL to store as the place or user image.
func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}
	kind, path := args[0], args[1]

	cfg, err := config.Load(args[2:])
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	contentType, err := netx.DetectImageType(data)
	if err != nil {
		return err
	}

	target, err := newPresigner(cfg).PresignUpload(ctx, kind)
	if err != nil {
		return err
	}
	if err := putObject(ctx, nil, target.UploadURL, contentType, data); err != nil {
		return err
	}

	a.logger.Info(ctx, "image uploaded", "key", target.Key, "content_type", contentType)
	fmt.Fprintln(a.out, target.ImageURL)
	return nil
}
