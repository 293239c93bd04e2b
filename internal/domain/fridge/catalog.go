package fridge

import (
	"context"
	"strings"
	"time"

	"fridge-app-go/internal/repository/documents"
)

// Catalog owns the refrigerators document and the derived memberCount.
type Catalog struct {
	fridges  *documents.Collection[Refrigerator]
	identity *IdentityProvider
	ledger   *Ledger
	now      func() time.Time
	newCode  CodeGenerator
}

func (c *Catalog) CreateFridge(ctx context.Context, name string, description *string) (*Refrigerator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description = trimOptional(description)

	user, err := c.identity.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var created Refrigerator
	_, err = c.fridges.Update(ctx, func(fridges []Refrigerator) ([]Refrigerator, error) {
		code, err := uniqueInviteCode(c.newCode, fridges)
		if err != nil {
			return nil, err
		}

		created = Refrigerator{
			ID:          nextFridgeID(fridges),
			Name:        name,
			Description: description,
			OwnerID:     user.ID,
			InviteCode:  code,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return append(fridges, created), nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := c.ledger.AddRelation(ctx, user.ID, created.ID, user.ID); err != nil {
		return nil, err
	}

	result, err := c.GetFridgeByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrFridgeNotFound
	}
	return result, nil
}

// GetFridgeByInviteCode returns the first refrigerator with the code, or nil.
func (c *Catalog) GetFridgeByInviteCode(ctx context.Context, code string) (*Refrigerator, error) {
	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, nil
	}

	fridges, err := c.fridges.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fridges {
		if fridges[i].InviteCode == code {
			return &fridges[i], nil
		}
	}
	return nil, nil
}

func (c *Catalog) GetFridgeByID(ctx context.Context, id int) (*Refrigerator, error) {
	fridges, err := c.fridges.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fridges {
		if fridges[i].ID == id {
			return &fridges[i], nil
		}
	}
	return nil, nil
}

func (c *Catalog) ListFridges(ctx context.Context) ([]Refrigerator, error) {
	return c.fridges.Load(ctx)
}

// UpdateMemberCount recomputes memberCount from the relation rows.
func (c *Catalog) UpdateMemberCount(ctx context.Context, fridgeID int) error {
	count, err := c.ledger.CountActive(ctx, fridgeID)
	if err != nil {
		return err
	}

	now := c.now()
	_, err = c.fridges.Update(ctx, func(fridges []Refrigerator) ([]Refrigerator, error) {
		for i := range fridges {
			if fridges[i].ID == fridgeID {
				fridges[i].MemberCount = count
				fridges[i].UpdatedAt = now
				return fridges, nil
			}
		}
		return nil, ErrFridgeNotFound
	})
	return err
}

// ReconcileMemberCounts recomputes every memberCount and reports how many
// were stale. A crash between a relation write and its count write leaves
// a stale count behind.
func (c *Catalog) ReconcileMemberCounts(ctx context.Context) (int, error) {
	relations, err := c.ledger.relations.Load(ctx)
	if err != nil {
		return 0, err
	}
	counts := make(map[int]int)
	for _, rel := range relations {
		if rel.Status.IsActive() {
			counts[rel.RefrigeratorID]++
		}
	}

	fixed := 0
	now := c.now()
	_, err = c.fridges.Update(ctx, func(fridges []Refrigerator) ([]Refrigerator, error) {
		for i := range fridges {
			if fridges[i].MemberCount != counts[fridges[i].ID] {
				fridges[i].MemberCount = counts[fridges[i].ID]
				fridges[i].UpdatedAt = now
				fixed++
			}
		}
		return fridges, nil
	})
	if err != nil {
		return 0, err
	}
	return fixed, nil
}

func nextFridgeID(fridges []Refrigerator) int {
	max := 0
	for _, f := range fridges {
		if f.ID > max {
			max = f.ID
		}
	}
	return max + 1
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
