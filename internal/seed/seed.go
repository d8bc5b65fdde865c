// Package seed loads demo data into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/handler"
	"freelancedesk/internal/model"
	"freelancedesk/pkg/util"
)

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// Result counts what Run inserted.
type Result struct {
	Skipped  bool
	Clients  int
	Projects int
	Tasks    int
	Payments int
}

func days(now time.Time, n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

func str(s string) *string { return &s }

func money(s string) *model.Money {
	m := model.MustMoney(s)
	return &m
}

// Run inserts the demo clients, projects, tasks and payments unless the
// store already holds a client.
func Run(ctx context.Context, stores handler.Stores, now time.Time, logger *zap.Logger) (Result, error) {
	existing, err := stores.Clients.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("check existing clients: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Store already has data, skipping seed", zap.Int("clients", len(existing)))
		return Result{Skipped: true}, nil
	}

	var res Result
	clientInputs := []model.ClientInput{
		{Name: "Tecnosoft SRL", Email: "info@tecnosoft.com", Phone: str("+39 123 456 7890"), Company: str("Tecnosoft SRL"), Notes: str("E-commerce company")},
		{Name: "Digital Marketing Pro", Email: "contact@digitalmarketingpro.com", Phone: str("+39 234 567 8901"), Company: str("Digital Marketing Pro"), Notes: str("Digital marketing agency")},
		{Name: "Innovative Solutions", Email: "hello@innovative-solutions.com", Phone: str("+39 345 678 9012"), Company: str("Innovative Solutions"), Notes: str("Mobile app development company")},
	}
	clients := make([]*model.Client, 0, len(clientInputs))
	for _, in := range clientInputs {
		c, err := stores.Clients.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("create client %q: %w", in.Name, err)
		}
		clients = append(clients, c)
		res.Clients++
	}

	projectInputs := []model.ProjectInput{
		{
			Title:       "E-commerce Redesign",
			Description: str("Redesign completo del sito e-commerce con nuovo layout responsive e miglioramento UX."),
			ClientID:    clients[0].ID,
			Status:      model.ProjectInProgress,
			Deadline:    days(now, 9),
			Amount:      money("3500.00"),
			Notes:       str("Include redesign di homepage, catalogo, e checkout"),
		},
		{
			Title:       "Blog Aziendale",
			Description: str("Sviluppo blog WordPress con tema personalizzato e integrazione newsletter."),
			ClientID:    clients[1].ID,
			Status:      model.ProjectCompleted,
			Deadline:    days(now, -6),
			Amount:      money("1800.00"),
			Notes:       str("Include 5 articoli iniziali"),
		},
		{
			Title:       "App Mobile",
			Description: str("Sviluppo app React Native per gestione inventario con sincronizzazione cloud."),
			ClientID:    clients[2].ID,
			Status:      model.ProjectOnHold,
			Deadline:    days(now, 55),
			Amount:      money("5200.00"),
			Notes:       str("In attesa di approvazione design"),
		},
	}
	projects := make([]*model.Project, 0, len(projectInputs))
	for _, in := range projectInputs {
		p, err := stores.Projects.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("create project %q: %w", in.Title, err)
		}
		projects = append(projects, p)
		res.Projects++
	}

	taskInputs := []model.TaskInput{
		{Title: "Sviluppo Homepage", Description: str("Completare il layout responsive della homepage e implementare le animazioni richieste."), ProjectID: projects[0].ID, Priority: model.PriorityHigh, Deadline: days(now, 0)},
		{Title: "Ottimizzazione SEO", Description: str("Implementare le meta tags e ottimizzare le immagini per migliorare il SEO del blog."), ProjectID: projects[1].ID, Priority: model.PriorityMedium, Deadline: days(now, 1)},
		{Title: "Riunione Cliente", Description: str("Videochiamata per discutere i requisiti della nuova app mobile."), ProjectID: projects[2].ID, Priority: model.PriorityLow, Deadline: days(now, -1), IsCompleted: true},
		{Title: "Setup Database", Description: str("Configurare il database per il progetto e-commerce"), ProjectID: projects[0].ID, Priority: model.PriorityLow, Deadline: days(now, 3)},
	}
	for _, in := range taskInputs {
		if _, err := stores.Tasks.Create(ctx, in); err != nil {
			return res, fmt.Errorf("create task %q: %w", in.Title, err)
		}
		res.Tasks++
	}

	paymentInputs := []model.PaymentInput{
		{InvoiceNumber: "INV-001", ProjectID: projects[0].ID, Amount: money("1500.00"), PaymentMethod: str("Bank Transfer"), Status: model.PaymentReceived, Notes: str("Down payment")},
		{InvoiceNumber: "INV-002", ProjectID: projects[1].ID, Amount: money("850.00"), PaymentMethod: str("PayPal"), Status: model.PaymentPending, DueDate: days(now, 9), Notes: str("First installment")},
		{InvoiceNumber: "INV-003", ProjectID: projects[2].ID, Amount: money("1200.00"), PaymentMethod: str("Bank Transfer"), Status: model.PaymentPending, DueDate: days(now, 25), Notes: str("Down payment")},
	}
	for _, in := range paymentInputs {
		if _, err := stores.Payments.Create(ctx, in); err != nil {
			return res, fmt.Errorf("create payment %q: %w", in.InvoiceNumber, err)
		}
		res.Payments++
	}

	logger.Info("Seeding completed",
		zap.Int("clients", res.Clients),
		zap.Int("projects", res.Projects),
		zap.Int("tasks", res.Tasks),
		zap.Int("payments", res.Payments),
	)
	return res, nil
}

// EnsureUser creates username with a bcrypt hash of password unless it
// already exists. It reports whether a user was created.
func EnsureUser(ctx context.Context, users UserStore, username, password string, logger *zap.Logger) (bool, error) {
	if _, err := users.FindByUsername(ctx, username); err == nil {
		logger.Info("User already exists", zap.String("username", username))
		return false, nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return false, fmt.Errorf("look up user: %w", err)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := users.Create(ctx, username, hash); err != nil {
		// lost a race with a concurrent bootstrap
		if errors.Is(err, errs.ErrAlreadyExists) {
			logger.Info("User already exists", zap.String("username", username))
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	logger.Info("Created user", zap.String("username", username))
	return true, nil
}
