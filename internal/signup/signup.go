// Package signup is the account signup schema served by cmd/formd and
// checked by cmd/formcheck.
package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/metrics"
)

const FormName = "signup"

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var ErrHashPassword = errors.New("failed to hash password")

// EmailStore is an EmailIndex that can record new addresses. Add must be
// atomic and return ErrEmailTaken for an address that is already stored.
type EmailStore interface {
	EmailIndex
	Add(ctx context.Context, email string) error
}

type Account struct {
	Name         string    `form:"name" json:"name"`
	Email        string    `form:"email" json:"email"`
	PasswordHash string    `form:"password_hash" json:"-"`
	Team         string    `form:"team" json:"team,omitempty"`
	Tags         []string  `form:"tags" json:"tags"`
	Company      Company   `form:"company" json:"company"`
	Pictures     []Picture `form:"pictures" json:"pictures"`
}

type Company struct {
	Name string `form:"name" json:"name"`
	Slug string `form:"slug" json:"slug"`
}

type Picture struct {
	Title string `form:"title" json:"title"`
	URL   string `form:"url" json:"url"`
}

// NewKind extends form.Base with the slug and string helpers.
func NewKind(log *slog.Logger) *form.Kind {
	k := form.Base.Extend(FormName, form.WithLogger(log))
	k.Register("string", func(v any, _ ...any) bool {
		_, ok := v.(string)
		return ok
	})
	k.Register("slug", func(v any, _ ...any) bool {
		s, ok := v.(string)
		return ok && slugRegex.MatchString(s)
	})
	return k
}

type Option func(*Validator)

func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(v *Validator) { v.rec = r }
}

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(v *Validator) { v.cost = cost }
}

// Validator declares the signup schema. It is safe for concurrent use.
type Validator struct {
	kind  *form.Kind
	store EmailStore
	log   *slog.Logger
	rec   *metrics.Recorder
	cost  int
}

func New(store EmailStore, opts ...Option) *Validator {
	v := &Validator{
		store: store,
		log:   logger.Discard(),
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.kind = NewKind(v.log)
	return v
}

// Validate runs the schema over input. Input problems are reported on the
// returned node; the error is reserved for email index failures, hashing
// failures and declaration bugs. On a valid node the password has been
// replaced by its bcrypt hash under "password_hash".
func (v *Validator) Validate(ctx context.Context, input map[string]any) (*form.Node, error) {
	start := time.Now()
	n := v.kind.New(input)

	var lookupErr error
	var password *form.Field
	err := form.Declare(n, func(n *form.Node) {
		n.Field("name").Map(form.Squish).Check("required").Check("length", 2, 64)

		n.Field("email").
			Map(form.Trim).Map(form.Lower).
			Check("required").
			Check("email").
			Validate(form.Tag("unique_email"), func(val any) bool {
				taken, err := v.store.Exists(ctx, val.(string))
				if err != nil {
					lookupErr = err
					return true
				}
				return !taken
			})

		password = n.Field("password").Check("required").Check("string").Check("length", 8, 72)
		n.Field("password_confirmation").Ignore()
		n.Group("password_confirmation", "password").Check("confirmation")

		if team := n.Field("team"); team.Value() != nil {
			team.Map(form.Trim).Map(form.Lower).Check("slug")
		} else {
			team.Ignore()
		}

		n.FieldSet("tags").Map(form.Trim).Map(form.Lower).Check("required").Check("count", 0, 5).Check("distinct")

		company := n.Form("company")
		companyName := company.Field("name").Map(form.Squish).Check("required").Check("length", 2, 128)
		company.Field("slug").
			Map(form.Trim).Map(form.Lower).
			Map(form.Default(form.Slug(companyName.Value()))).
			Check("required").Check("slug")

		pictures := n.FormSet("pictures").Check("count", 0, 10)
		for _, p := range pictures.Nodes() {
			p.Field("title").Map(form.Squish).Check("required")
			p.Field("url").Map(form.Trim).Check("required").Check("url")
		}

		n.Field("terms").Check("acceptance").Ignore()
	})
	if err != nil {
		return nil, err
	}
	if lookupErr != nil {
		return nil, lookupErr
	}

	if n.Valid() {
		var hashErr error
		password.Map(func(p any) any {
			hash, err := bcrypt.GenerateFromPassword([]byte(p.(string)), v.cost)
			if err != nil {
				hashErr = err
				return nil
			}
			return string(hash)
		}).As("password_hash")
		if hashErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrHashPassword, hashErr)
		}
	}

	d := time.Since(start)
	if v.rec != nil {
		v.rec.Observe(FormName, n, d)
	}
	v.log.DebugContext(ctx, "form validated",
		logger.Form(FormName),
		logger.ErrorCount(len(n.Errors())),
		logger.Duration(d),
	)
	return n, nil
}

// Register validates input, decodes it into an Account and records the email.
// Invalid input returns an error matching form.ErrInvalid that unwraps to
// form.Errors. An email stored by a concurrent signup between the check and
// the write is reported as unique_email as well.
func (v *Validator) Register(ctx context.Context, input map[string]any) (Account, error) {
	n, err := v.Validate(ctx, input)
	if err != nil {
		return Account{}, err
	}

	var acc Account
	if err := n.Decode(&acc); err != nil {
		return Account{}, err
	}
	if err := v.store.Add(ctx, acc.Email); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// Registered concurrently after the unique_email check passed.
			return Account{}, fmt.Errorf("%w: %w", form.ErrInvalid, form.Errors{"email": form.Tag("unique_email")})
		}
		return Account{}, err
	}

	v.log.InfoContext(ctx, "account registered", logger.Form(FormName), slog.String("email", acc.Email))
	return acc, nil
}
