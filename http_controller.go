package accounts

import (
	"context"
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// AccountOperations is the surface the HTTP controller needs from the
// service layer.
type AccountOperations interface {
	CreateAccount(ctx context.Context, input NewAccount) (*Account, error)
	Login(ctx context.Context, creds Credentials) (string, error)
	Find(ctx context.Context, criteria Criteria) ([]*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Count(ctx context.Context, criteria Criteria) (int, error)
	UpdateByID(ctx context.Context, id string, changes map[string]any) (*Account, error)
	ReplaceByID(ctx context.Context, id string, record *Account) (*Account, error)
	DeleteByID(ctx context.Context, id string) error
	UpdateAll(ctx context.Context, criteria Criteria, changes map[string]any) (int, error)
}

// AccountController exposes the account API over fiber.
type AccountController struct {
	Service AccountOperations
	Logger  Logger
}

type AccountControllerOption func(*AccountController) *AccountController

func WithControllerLogger(logger Logger) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func NewAccountController(service AccountOperations, opts ...AccountControllerOption) *AccountController {
	if service == nil {
		panic("missing AccountOperations in account controller...")
	}

	c := &AccountController{
		Service: service,
		Logger:  defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// RegisterRoutes mounts the account API on app.
func RegisterRoutes(app *fiber.App, controller *AccountController) {
	app.Post("/accounts", controller.Create).Name("accounts.create")
	app.Post("/accounts/login", controller.Login).Name("accounts.login")
	app.Get("/accounts/count", controller.Count).Name("accounts.count")
	app.Get("/accounts", controller.Find).Name("accounts.find")
	app.Get("/accounts/:id", controller.FindByID).Name("accounts.get")
	app.Patch("/accounts/:id", controller.UpdateByID).Name("accounts.patch")
	app.Patch("/accounts", controller.UpdateAll).Name("accounts.patch-all")
	app.Put("/accounts/:id", controller.ReplaceByID).Name("accounts.put")
	app.Delete("/accounts/:id", controller.DeleteByID).Name("accounts.delete")
}

// CreateAccountRequest is the create payload.
type CreateAccountRequest struct {
	Username string         `json:"username" form:"username"`
	Password string         `json:"password" form:"password"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate runs validation rules.
func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate runs validation rules.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AccountController) Create(ctx *fiber.Ctx) error {
	payload := new(CreateAccountRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return a.respondError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(ctx, err)
	}

	account, err := a.Service.CreateAccount(ctx.Context(), NewAccount{
		Username: payload.Username,
		Password: payload.Password,
		Metadata: payload.Metadata,
	})
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(account)
}

func (a *AccountController) Login(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return a.respondError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(ctx, err)
	}

	token, err := a.Service.Login(ctx.Context(), Credentials{
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"token": token})
}

func (a *AccountController) Find(ctx *fiber.Ctx) error {
	criteria, err := parseCriteria(ctx.Query("filter"))
	if err != nil {
		return a.respondError(ctx, err)
	}

	accounts, err := a.Service.Find(ctx.Context(), criteria)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(accounts)
}

func (a *AccountController) FindByID(ctx *fiber.Ctx) error {
	account, err := a.Service.FindByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(account)
}

func (a *AccountController) Count(ctx *fiber.Ctx) error {
	criteria, err := parseCriteria(ctx.Query("where"))
	if err != nil {
		return a.respondError(ctx, err)
	}

	count, err := a.Service.Count(ctx.Context(), criteria)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"count": count})
}

func (a *AccountController) UpdateByID(ctx *fiber.Ctx) error {
	changes := map[string]any{}
	if err := json.Unmarshal(ctx.Body(), &changes); err != nil {
		return a.respondError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	account, err := a.Service.UpdateByID(ctx.Context(), ctx.Params("id"), changes)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(account)
}

func (a *AccountController) UpdateAll(ctx *fiber.Ctx) error {
	criteria, err := parseCriteria(ctx.Query("where"))
	if err != nil {
		return a.respondError(ctx, err)
	}

	changes := map[string]any{}
	if err := json.Unmarshal(ctx.Body(), &changes); err != nil {
		return a.respondError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	count, err := a.Service.UpdateAll(ctx.Context(), criteria, changes)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"count": count})
}

func (a *AccountController) ReplaceByID(ctx *fiber.Ctx) error {
	payload := new(CreateAccountRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return a.respondError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	record := &Account{
		Username: payload.Username,
		Metadata: payload.Metadata,
	}

	account, err := a.Service.ReplaceByID(ctx.Context(), ctx.Params("id"), record)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(account)
}

func (a *AccountController) DeleteByID(ctx *fiber.Ctx) error {
	if err := a.Service.DeleteByID(ctx.Context(), ctx.Params("id")); err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// parseCriteria decodes an opaque JSON query descriptor. An absent parameter
// yields an empty criteria, matching everything.
func parseCriteria(raw string) (Criteria, error) {
	criteria := Criteria{}
	if raw == "" {
		return criteria, nil
	}

	fields := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return criteria, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse filter parameter").
			WithCode(goerrors.CodeBadRequest)
	}

	_, hasWhere := fields["where"]
	_, hasOrder := fields["order"]
	_, hasLimit := fields["limit"]
	_, hasOffset := fields["offset"]

	if hasWhere || hasOrder || hasLimit || hasOffset {
		if err := json.Unmarshal([]byte(raw), &criteria); err != nil {
			return criteria, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse filter parameter").
				WithCode(goerrors.CodeBadRequest)
		}
		return criteria, nil
	}

	// Bare predicates are accepted too: ?where={"username":"alice"}
	if len(fields) > 0 {
		criteria.Where = fields
	}

	return criteria, nil
}

func (a *AccountController) respondValidation(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{
			"message":   err.Error(),
			"text_code": "VALIDATION",
		},
	})
}

func (a *AccountController) respondError(ctx *fiber.Ctx, err error) error {
	status, message := MapErrorToStatus(err)

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("account controller error on %s: %v", ctx.Path(), err)
	}

	textCode := ""
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		textCode = richErr.TextCode
	}

	return ctx.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"message":   message,
			"text_code": textCode,
		},
	})
}
