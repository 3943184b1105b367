package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/access"
	"github.com/spec-kit/workforce-client/internal/api"
	"github.com/spec-kit/workforce-client/internal/config"
	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/events"
	"github.com/spec-kit/workforce-client/internal/observability"
	"github.com/spec-kit/workforce-client/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	client, err := api.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build client", zap.Error(err))
	}
	defer client.Close()

	// Surface navigation decisions the way a UI shell would.
	client.Events.Subscribe(events.EventNavigate, func(_ context.Context, ev events.Event) error {
		if payload, ok := ev.Payload.(events.NavigatePayload); ok {
			fmt.Fprintf(os.Stderr, "-> navigate to %s\n", payload.Target)
		}
		return nil
	})

	ctx := context.Background()

	if err := run(ctx, client, os.Args[1], os.Args[2:]); err != nil {
		logger.Fatal("command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func run(ctx context.Context, client *api.Client, command string, args []string) error {
	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)
		if *email == "" || *password == "" {
			return fmt.Errorf("login requires -email and -password")
		}
		user, err := client.Auth.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.FullName(), user.Role)
		return nil

	case "whoami":
		state := client.Bootstrap.Run(ctx)
		if state != session.StateAuthenticated {
			fmt.Println("not logged in")
			return nil
		}
		user, _ := client.Store.CurrentUser()
		sub := client.Store.Subscription()
		fmt.Printf("%s <%s>\nrole: %s\nplan: %s\n", user.FullName(), user.Email, user.Role, sub.Plan)
		return nil

	case "logout":
		client.Bootstrap.Run(ctx)
		return client.Auth.Logout(ctx)

	case "tenant":
		fs := flag.NewFlagSet("tenant", flag.ExitOnError)
		set := fs.String("set", "", "persist an explicit tenant selection")
		clear := fs.Bool("clear", false, "drop the persisted selection")
		_ = fs.Parse(args)
		if *clear {
			return client.Tenant.SetTenant(ctx, "")
		}
		if *set != "" {
			return client.Tenant.SetTenant(ctx, *set)
		}
		if slug, ok := client.Tenant.Resolve(ctx); ok {
			fmt.Println(slug)
		} else {
			fmt.Println("no tenant resolvable")
		}
		return nil

	case "attendance":
		fs := flag.NewFlagSet("attendance", flag.ExitOnError)
		date := fs.String("date", "", "day to list (YYYY-MM-DD)")
		_ = fs.Parse(args)
		if err := requireSession(ctx, client, access.Requirement{}); err != nil {
			return err
		}
		records, err := client.Attendance.Daily(ctx, *date)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, rec := range records {
			name := rec.UserID
			if rec.User != nil {
				name = rec.User.FullName()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", rec.Date, name, rec.Status)
		}
		return w.Flush()

	case "leaves":
		if err := requireSession(ctx, client, access.Requirement{}); err != nil {
			return err
		}
		leaves, err := client.Leaves.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, lv := range leaves {
			fmt.Fprintf(w, "%s\t%s..%s\t%s\t%s\n", lv.ID, lv.StartDate, lv.EndDate, lv.Status, lv.Reason)
		}
		return w.Flush()

	case "report":
		fs := flag.NewFlagSet("report", flag.ExitOnError)
		month := fs.String("month", "", "month to report (YYYY-MM)")
		_ = fs.Parse(args)
		// Reports are a paid, management-only view.
		req := access.Requirement{
			Roles: []domain.Role{domain.RoleOwner, domain.RoleAdmin},
			Plans: []domain.SubscriptionPlan{domain.PlanPro, domain.PlanEnterprise},
		}
		if err := requireSession(ctx, client, req); err != nil {
			return err
		}
		report, err := client.Reports.Monthly(ctx, *month)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d employees, %.1f%% average attendance, %d leaves\n",
			report.Month, report.TotalEmployees, report.AverageAttendance, report.TotalLeaves)
		return nil

	case "invite":
		fs := flag.NewFlagSet("invite", flag.ExitOnError)
		email := fs.String("email", "", "invitee email")
		role := fs.String("role", string(domain.RoleEmployee), "invitee role")
		_ = fs.Parse(args)
		req := access.Requirement{Roles: []domain.Role{domain.RoleOwner, domain.RoleAdmin}}
		if err := requireSession(ctx, client, req); err != nil {
			return err
		}
		return client.Invitations.Send(ctx, *email, domain.Role(*role))

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireSession resolves the session once and applies the route
// requirement before touching protected data.
func requireSession(ctx context.Context, client *api.Client, req access.Requirement) error {
	client.Bootstrap.Run(ctx)
	outcome, err := client.Guard.Check(ctx, req)
	if err != nil {
		return err
	}
	if !outcome.Allowed() {
		return fmt.Errorf("access denied (%s), see %s", outcome.Decision, outcome.Redirect)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: workforce <command> [flags]

commands:
  login -email <email> -password <password>
  whoami
  logout
  tenant [-set <slug> | -clear]
  attendance -date <YYYY-MM-DD>
  leaves
  report -month <YYYY-MM>
  invite -email <email> [-role <role>]`)
}
