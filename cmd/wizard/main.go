// Command wizard is the interactive terminal front end of the will
// service. It walks the five-step flow, saving the draft through the
// HTTP API and downloading the generated document at the end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"bitwill.backend/internal/domain/entities"
	"bitwill.backend/internal/wizard"
	"bitwill.backend/pkg/client"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
)

func main() {
	serverURL := flag.String("server", envOr("BITWILL_SERVER_URL", "http://localhost:8080"), "will service base URL")
	outDir := flag.String("out", ".", "directory for the downloaded document")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *serverURL, *outDir); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			fmt.Println(faintStyle.Render("Aborted."))
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, serverURL, outDir string) error {
	api := client.NewClient(serverURL)

	fmt.Println(titleStyle.Render("Bitcoin Will Wizard"))
	fmt.Println(faintStyle.Render("Server: " + serverURL))

	if err := authenticate(ctx, api); err != nil {
		return err
	}
	if err := ensureSubscription(ctx, api); err != nil {
		return err
	}

	session, err := openSession(ctx, api)
	if err != nil {
		return err
	}

	if err := runSteps(ctx, api, session); err != nil {
		return err
	}

	return saveDocument(ctx, api, session.Result(), outDir)
}

// authenticate logs into an existing account or registers a new one
func authenticate(ctx context.Context, api *client.Client) error {
	var (
		mode     = "login"
		email    string
		password string
	)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Log in", "login"),
					huh.NewOption("Create an account", "register"),
				).
				Value(&mode),
			huh.NewInput().
				Title("Email").
				Value(&email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	var tokens *client.AuthTokens
	if mode == "register" {
		tokens, err = api.Register(ctx, email, password)
	} else {
		tokens, err = api.Login(ctx, email, password)
	}
	if err != nil {
		return err
	}
	api.SetToken(tokens.AccessToken)
	return nil
}

// ensureSubscription offers checkout when the account holds no active
// subscription. Declining is allowed; saving will then fail with a
// clear message instead.
func ensureSubscription(ctx context.Context, api *client.Client) error {
	status, err := api.SubscriptionStatus(ctx)
	if err != nil {
		return err
	}
	if status.Active {
		return nil
	}

	plans, err := api.Plans(ctx)
	if err != nil {
		return err
	}

	options := make([]huh.Option[string], 0, len(plans)+1)
	for _, p := range plans {
		label := fmt.Sprintf("%s — %.2f %s / %s", p.Name, p.Price, p.Currency, p.Interval)
		options = append(options, huh.NewOption(label, string(p.ID)))
	}
	options = append(options, huh.NewOption("Not now", ""))

	var choice string
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("An active subscription is required to save and generate a will.").
				Options(options...).
				Value(&choice),
		),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}
	if choice == "" {
		fmt.Println(warnStyle.Render("Continuing without a subscription; saving will be refused."))
		return nil
	}

	if _, err := api.Checkout(ctx, entities.SubscriptionPlan(choice)); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Subscription activated."))
	return nil
}

// openSession starts a fresh draft or resumes an existing will
func openSession(ctx context.Context, api *client.Client) (*wizard.Session, error) {
	list, err := api.ListWills(ctx, 1, 0)
	if err != nil {
		return nil, err
	}

	form := &interactiveForm{}

	if len(list.Wills) == 0 {
		session, err := wizard.NewSessionFromTemplate(ctx, form, api)
		if err != nil {
			return nil, err
		}
		form.bind(session)
		return session, nil
	}

	options := []huh.Option[string]{huh.NewOption("Start a new will", "")}
	for _, summary := range list.Wills {
		label := fmt.Sprintf("%s  (updated %s)", summary.Title, summary.UpdatedAt.Format("2006-01-02"))
		options = append(options, huh.NewOption(label, summary.ID.String()))
	}

	var choice string
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Will").
				Options(options...).
				Value(&choice),
		),
	).RunWithContext(ctx)
	if err != nil {
		return nil, err
	}

	if choice == "" {
		session, err := wizard.NewSessionFromTemplate(ctx, form, api)
		if err != nil {
			return nil, err
		}
		form.bind(session)
		return session, nil
	}

	id, err := uuid.Parse(choice)
	if err != nil {
		return nil, err
	}
	draft, err := api.GetWill(ctx, id)
	if err != nil {
		return nil, err
	}
	session := wizard.NewSessionFromDraft(form, api, draft)
	form.bind(session)
	return session, nil
}

// rowActions are the collection edits offered before a step's form
var rowActions = map[wizard.Step][]struct {
	label      string
	collection wizard.Collection
}{
	wizard.StepBitcoinAssets: {
		{"Add a wallet", wizard.CollectionWallets},
		{"Add an exchange account", wizard.CollectionExchanges},
	},
	wizard.StepBeneficiaries: {
		{"Add a beneficiary", wizard.CollectionBeneficiaries},
	},
	wizard.StepInstructions: {
		{"Add an emergency contact", wizard.CollectionEmergencyContacts},
	},
}

func runSteps(ctx context.Context, api *client.Client, session *wizard.Session) error {
	for !session.Completed() {
		step := session.CurrentStep()
		fmt.Println()
		fmt.Println(titleStyle.Render(fmt.Sprintf("Step %d of %d — %s", int(step), wizard.TotalSteps, step)))

		action, err := chooseAction(ctx, session, step)
		if err != nil {
			return err
		}

		switch action {
		case actionAddRow:
			continue
		case actionBack:
			if err := session.Retreat(); err != nil && !errors.Is(err, wizard.ErrFirstStep) {
				return err
			}
			continue
		case actionQuit:
			return context.Canceled
		}

		if err := session.Advance(ctx); err != nil {
			if handled := reportStepError(err); handled {
				continue
			}
			return err
		}

		if step == wizard.StepBeneficiaries {
			if total := session.Draft().TotalPercentage(); total != 100 && len(session.Draft().Beneficiaries) > 0 {
				fmt.Println(warnStyle.Render(fmt.Sprintf("Beneficiary shares sum to %.0f%%, not 100%%.", total)))
			}
		}
	}
	return nil
}

type stepAction int

const (
	actionContinue stepAction = iota
	actionAddRow
	actionBack
	actionQuit
)

// chooseAction shows the step menu. Steps without collections go
// straight to their form.
func chooseAction(ctx context.Context, session *wizard.Session, step wizard.Step) (stepAction, error) {
	adds := rowActions[step]
	if len(adds) == 0 && step == wizard.StepPersonalInfo {
		return actionContinue, nil
	}

	options := []huh.Option[int]{huh.NewOption("Fill in this step and continue", int(actionContinue))}
	for i, add := range adds {
		options = append(options, huh.NewOption(add.label, 100+i))
	}
	if step > wizard.StepPersonalInfo {
		options = append(options, huh.NewOption("Go back a step", int(actionBack)))
	}
	options = append(options, huh.NewOption("Quit", int(actionQuit)))

	var choice int
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("What next?").
				Options(options...).
				Value(&choice),
		),
	).RunWithContext(ctx)
	if err != nil {
		return actionQuit, err
	}

	if choice >= 100 {
		add := adds[choice-100]
		session.AddRow(add.collection)
		fmt.Println(faintStyle.Render(add.label + " — a new entry will appear in the form."))
		return actionAddRow, nil
	}
	return stepAction(choice), nil
}

// reportStepError prints recoverable step failures and reports whether
// the loop should continue
func reportStepError(err error) bool {
	var validation *wizard.ValidationError
	if errors.As(err, &validation) {
		fmt.Println(warnStyle.Render("Required fields missing: " + fmt.Sprint(validation.Fields)))
		return true
	}
	if errors.Is(err, wizard.ErrAcknowledgmentRequired) {
		fmt.Println(warnStyle.Render("You must acknowledge the legal notice before generating."))
		return true
	}

	var generation *wizard.GenerationError
	if errors.As(err, &generation) {
		var apiErr *client.APIError
		if errors.As(generation.Err, &apiErr) && apiErr.Status == http.StatusForbidden {
			fmt.Println(warnStyle.Render("Saving requires an active subscription: " + apiErr.Message))
			return true
		}
		if generation.Saved {
			fmt.Println(warnStyle.Render("Draft saved, but generation failed: " + generation.Err.Error() + ". Review and try again."))
		} else {
			fmt.Println(warnStyle.Render("Saving failed: " + generation.Err.Error()))
		}
		return true
	}
	return false
}

// saveDocument downloads the generated document next to the user
func saveDocument(ctx context.Context, api *client.Client, result *entities.GenerateResult, outDir string) error {
	target := filepath.Join(outDir, filepath.Base(result.DocumentPath))
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := api.DownloadDocument(ctx, result.WillID, result.DownloadToken, f); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Will generated."))
	fmt.Println("Document: " + target)
	fmt.Println(faintStyle.Render("Share link token (expires): " + result.DownloadToken))
	return nil
}
