package fridge

import (
	"context"
	"sort"
	"time"

	"fridge-app-go/internal/repository/documents"
	"fridge-app-go/pkg/logger"
)

// Ledger owns the refrigerator_users document and is the only writer of
// relation state.
type Ledger struct {
	relations *documents.Collection[RefrigeratorUser]
	catalog   *Catalog
	now       func() time.Time
	log       logger.Logger
}

// AddRelation appends an active row and recomputes the refrigerator's
// member count. A second row for the same pair is rejected.
func (l *Ledger) AddRelation(ctx context.Context, inviteeID, fridgeID, inviterID int) (*RefrigeratorUser, error) {
	now := l.now()
	var created RefrigeratorUser
	_, err := l.relations.Update(ctx, func(relations []RefrigeratorUser) ([]RefrigeratorUser, error) {
		next := 0
		for _, rel := range relations {
			if rel.InviteeID == inviteeID && rel.RefrigeratorID == fridgeID {
				return nil, ErrRelationExists
			}
			if rel.RelationID > next {
				next = rel.RelationID
			}
		}

		created = RefrigeratorUser{
			RelationID:     next + 1,
			RefrigeratorID: fridgeID,
			InviterID:      inviterID,
			InviteeID:      inviteeID,
			CreatedAt:      now,
			UpdatedAt:      now,
			Status:         StatusActive,
		}
		return append(relations, created), nil
	})
	if err != nil {
		return nil, err
	}

	if err := l.catalog.UpdateMemberCount(ctx, fridgeID); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetRelation returns the row for the pair regardless of status, or nil.
func (l *Ledger) GetRelation(ctx context.Context, userID, fridgeID int) (*RefrigeratorUser, error) {
	relations, err := l.relations.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range relations {
		if relations[i].InviteeID == userID && relations[i].RefrigeratorID == fridgeID {
			return &relations[i], nil
		}
	}
	return nil, nil
}

func (l *Ledger) UpdateRelation(ctx context.Context, relation RefrigeratorUser) error {
	_, err := l.relations.Update(ctx, func(relations []RefrigeratorUser) ([]RefrigeratorUser, error) {
		for i := range relations {
			if relations[i].RelationID == relation.RelationID {
				relations[i] = relation
				return relations, nil
			}
		}
		return nil, ErrRelationNotFound
	})
	return err
}

func (l *Ledger) CountActive(ctx context.Context, fridgeID int) (int, error) {
	relations, err := l.relations.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, rel := range relations {
		if rel.RefrigeratorID == fridgeID && rel.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

// ListRelations returns every row of a refrigerator, whatever its status.
func (l *Ledger) ListRelations(ctx context.Context, fridgeID int) ([]RefrigeratorUser, error) {
	relations, err := l.relations.Load(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]RefrigeratorUser, 0)
	for _, rel := range relations {
		if rel.RefrigeratorID == fridgeID {
			result = append(result, rel)
		}
	}
	return result, nil
}

// ResolveUserFridges maps each active relation of the user to its
// refrigerator. Relations pointing at a missing refrigerator come back
// orphaned. Results are owner first, then oldest join first.
func (l *Ledger) ResolveUserFridges(ctx context.Context, userID int) ([]Resolution, error) {
	relations, err := l.relations.Load(ctx)
	if err != nil {
		return nil, err
	}
	fridges, err := l.catalog.ListFridges(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]Refrigerator, len(fridges))
	for _, f := range fridges {
		if _, ok := byID[f.ID]; !ok {
			byID[f.ID] = f
		}
	}

	result := make([]Resolution, 0)
	for _, rel := range relations {
		if rel.InviteeID != userID || !rel.Status.IsActive() {
			continue
		}
		f, ok := byID[rel.RefrigeratorID]
		if !ok {
			result = append(result, Resolution{RelationID: rel.RelationID})
			continue
		}
		result = append(result, Resolution{
			RelationID: rel.RelationID,
			Fridge: &UserFridge{
				Fridge:   f,
				Role:     roleFor(f, userID),
				JoinedAt: rel.CreatedAt,
			},
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return resolutionLess(result[i], result[j])
	})
	return result, nil
}

// GetUserFridges is ResolveUserFridges without the orphans. Orphans are
// logged so they can be repaired.
func (l *Ledger) GetUserFridges(ctx context.Context, userID int) ([]UserFridge, error) {
	resolved, err := l.ResolveUserFridges(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]UserFridge, 0, len(resolved))
	for _, res := range resolved {
		if res.Orphaned() {
			l.log.Warn("ledger: orphaned relation", "relation_id", res.RelationID, "user_id", userID)
			continue
		}
		result = append(result, *res.Fridge)
	}
	return result, nil
}

func resolutionLess(a, b Resolution) bool {
	if a.Orphaned() != b.Orphaned() {
		return !a.Orphaned()
	}
	if a.Orphaned() {
		return a.RelationID < b.RelationID
	}

	aOwner := a.Fridge.Role == RoleOwner
	bOwner := b.Fridge.Role == RoleOwner
	if aOwner != bOwner {
		return aOwner
	}
	if !a.Fridge.JoinedAt.Equal(b.Fridge.JoinedAt) {
		return a.Fridge.JoinedAt.Before(b.Fridge.JoinedAt)
	}
	return a.RelationID < b.RelationID
}
