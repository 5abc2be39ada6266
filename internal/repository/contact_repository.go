package repository

import (
	"context"
	"errors"
	"fmt"

	"kart-engine/internal/cart"
	"kart-engine/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type contactRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewContactRepository creates a PostgreSQL-backed contact resolver.
func NewContactRepository(pool *pgxpool.Pool, logger zerolog.Logger) ContactRepository {
	return &contactRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "contact").Logger(),
	}
}

func scanContact(row pgx.Row) (*cart.Contact, error) {
	var c cart.Contact
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
		return nil, err
	}
	return &c, nil
}

// CurrentContact returns the contact of the user, else the contact already bound
// to the cart, else a new anonymous contact bound to the cart. A contact found by
// cart is claimed by the user when one is given.
func (r *contactRepository) CurrentContact(ctx context.Context, user *cart.User, cartID uuid.UUID) (*cart.Contact, error) {
	if user != nil {
		contact, err := scanContact(r.pool.QueryRow(ctx,
			`SELECT id, first_name, last_name, email FROM contacts WHERE user_id = $1`, user.ID))
		switch {
		case err == nil:
			return contact, nil
		case !errors.Is(err, pgx.ErrNoRows):
			r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to query contact by user")
			return nil, fmt.Errorf("failed to query contact by user: %w", err)
		}
	}

	var userID *uuid.UUID
	if user != nil {
		userID = &user.ID
	}

	// The cart row is the anchor of anonymous contacts; an existing one is reused.
	query := `
		INSERT INTO contacts (id, user_id, cart_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id) DO UPDATE SET
			user_id = COALESCE(contacts.user_id, EXCLUDED.user_id),
			updated_at = NOW()
		RETURNING id, first_name, last_name, email
	`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, uuid.New(), userID, cartID))
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to resolve contact by cart")
		return nil, fmt.Errorf("failed to resolve contact by cart: %w", err)
	}

	r.logger.Debug().
		Str("contact_id", contact.ID.String()).
		Str("cart_id", cartID.String()).
		Msg("contact resolved by cart")
	return contact, nil
}

// UpdateContactFields sets the first name and email of a contact. Other fields,
// the last name in particular, are left untouched.
func (r *contactRepository) UpdateContactFields(ctx context.Context, contactID uuid.UUID, firstName, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts SET first_name = $2, email = $3, updated_at = NOW() WHERE id = $1`,
		contactID, firstName, email)
	if err != nil {
		r.logger.Error().Err(err).Str("contact_id", contactID.String()).Msg("failed to update contact")
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrContactNotFound
	}
	return nil
}

// GetByID retrieves a contact, or nil when it does not exist.
func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*cart.Contact, error) {
	contact, err := scanContact(r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email FROM contacts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}
	return contact, nil
}
