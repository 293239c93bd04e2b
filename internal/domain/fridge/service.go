package fridge

import (
	"context"
	"sort"
	"sync"
	"time"

	"fridge-app-go/internal/repository/documents"
	"fridge-app-go/pkg/logger"
)

type Recorder interface {
	ObserveOperation(operation, result string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, string) {}

// Service is the public membership API. Mutations run one at a time so the
// cross-document invariants hold over a store without transactions.
type Service struct {
	repo     *documents.Repository
	identity *IdentityProvider
	catalog  *Catalog
	ledger   *Ledger

	writeMu  sync.RWMutex
	cache    Cache
	cacheTTL time.Duration
	metrics  Recorder
	log      logger.Logger
	now      func() time.Time
}

type options struct {
	identity IdentityConfig
	cache    Cache
	cacheTTL time.Duration
	metrics  Recorder
	log      logger.Logger
	now      func() time.Time
	newCode  CodeGenerator
}

type Option func(*options)

func WithIdentity(cfg IdentityConfig) Option {
	return func(o *options) { o.identity = cfg }
}

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = cache
		o.cacheTTL = ttl
	}
}

func WithMetrics(recorder Recorder) Option {
	return func(o *options) { o.metrics = recorder }
}

func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithCodeGenerator(generate CodeGenerator) Option {
	return func(o *options) { o.newCode = generate }
}

func NewService(repo *documents.Repository, opts ...Option) *Service {
	o := options{
		identity: DefaultIdentityConfig(),
		cache:    noopCache{},
		metrics:  noopRecorder{},
		log:      logger.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
		newCode:  GenerateInviteCode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = noopCache{}
	}

	identity := NewIdentityProvider(repo, o.identity)
	catalog := &Catalog{
		fridges:  documents.NewCollection[Refrigerator](repo, KeyRefrigerators),
		identity: identity,
		now:      o.now,
		newCode:  o.newCode,
	}
	ledger := &Ledger{
		relations: documents.NewCollection[RefrigeratorUser](repo, KeyRefrigeratorUsers),
		catalog:   catalog,
		now:       o.now,
		log:       o.log,
	}
	catalog.ledger = ledger

	return &Service{
		repo:     repo,
		identity: identity,
		catalog:  catalog,
		ledger:   ledger,
		cache:    o.cache,
		cacheTTL: o.cacheTTL,
		metrics:  o.metrics,
		log:      o.log,
		now:      o.now,
	}
}

func (s *Service) Identity() *IdentityProvider {
	return s.identity
}

func (s *Service) Catalog() *Catalog {
	return s.catalog
}

func (s *Service) Ledger() *Ledger {
	return s.ledger
}

func (s *Service) GetCurrentUser(ctx context.Context) (*User, error) {
	return s.identity.GetCurrentUser(ctx)
}

func (s *Service) SetCurrentUser(ctx context.Context, user User) (result *User, err error) {
	defer s.observe("set_current_user", &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.identity.SetCurrentUser(ctx, user)
}

// CreateFridge creates the refrigerator and its owner relation.
func (s *Service) CreateFridge(ctx context.Context, name string, description *string) (result *Refrigerator, err error) {
	defer s.observe("create", &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	defer s.cache.Clear()

	return s.catalog.CreateFridge(ctx, name, description)
}

func (s *Service) JoinFridge(ctx context.Context, code string) (result *Refrigerator, err error) {
	defer s.observe("join", &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	user, err := s.identity.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, ErrInvalidInviteCode
	}

	fridge, err := s.catalog.GetFridgeByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if fridge == nil {
		return nil, ErrInvalidInviteCode
	}

	relation, err := s.ledger.GetRelation(ctx, user.ID, fridge.ID)
	if err != nil {
		return nil, err
	}

	defer s.cache.Clear()
	switch {
	case relation == nil:
		if _, err := s.ledger.AddRelation(ctx, user.ID, fridge.ID, fridge.OwnerID); err != nil {
			return nil, err
		}
	case relation.Status.IsActive():
		return nil, ErrAlreadyMember
	default:
		relation.Status = StatusActive
		relation.UpdatedAt = s.now()
		if err := s.ledger.UpdateRelation(ctx, *relation); err != nil {
			return nil, err
		}
		if err := s.catalog.UpdateMemberCount(ctx, fridge.ID); err != nil {
			return nil, err
		}
	}

	return s.mustGetFridge(ctx, fridge.ID)
}

func (s *Service) LeaveFridge(ctx context.Context, fridgeID int) (err error) {
	defer s.observe("leave", &err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	user, err := s.identity.GetCurrentUser(ctx)
	if err != nil {
		return err
	}

	relation, err := s.ledger.GetRelation(ctx, user.ID, fridgeID)
	if err != nil {
		return err
	}
	if relation == nil || !relation.Status.IsActive() {
		return ErrNotAMember
	}

	fridge, err := s.catalog.GetFridgeByID(ctx, fridgeID)
	if err != nil {
		return err
	}
	if fridge == nil {
		return ErrFridgeNotFound
	}
	if fridge.OwnerID == user.ID {
		return ErrOwnerCannotLeave
	}

	defer s.cache.Clear()
	relation.Status = StatusLeft
	relation.UpdatedAt = s.now()
	if err := s.ledger.UpdateRelation(ctx, *relation); err != nil {
		return err
	}
	return s.catalog.UpdateMemberCount(ctx, fridgeID)
}

func (s *Service) GetUserFridges(ctx context.Context, userID int) ([]UserFridge, error) {
	if cached, ok := s.cache.GetByUserID(userID); ok {
		return cached, nil
	}

	// held across load and fill so a mutation cannot clear the cache in between
	s.writeMu.RLock()
	defer s.writeMu.RUnlock()

	fridges, err := s.ledger.GetUserFridges(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetByUserID(userID, fridges, s.cacheTTL)
	return fridges, nil
}

func (s *Service) GetFridgeByID(ctx context.Context, id int) (*Refrigerator, error) {
	return s.catalog.GetFridgeByID(ctx, id)
}

func (s *Service) GetFridgeByInviteCode(ctx context.Context, code string) (*Refrigerator, error) {
	return s.catalog.GetFridgeByInviteCode(ctx, code)
}

// ListMembers returns the active members of a refrigerator, owner first.
// Members without a known profile are left out.
func (s *Service) ListMembers(ctx context.Context, fridgeID int) ([]Member, error) {
	fridge, err := s.catalog.GetFridgeByID(ctx, fridgeID)
	if err != nil {
		return nil, err
	}
	if fridge == nil {
		return nil, ErrFridgeNotFound
	}

	relations, err := s.ledger.ListRelations(ctx, fridgeID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.identity.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]User, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	members := make([]Member, 0, len(relations))
	for _, rel := range relations {
		if !rel.Status.IsActive() {
			continue
		}
		profile, ok := byID[rel.InviteeID]
		if !ok {
			s.log.Debug("members: unknown profile skipped", "user_id", rel.InviteeID, "fridge_id", fridgeID)
			continue
		}
		members = append(members, Member{
			User:       profile,
			Role:       roleFor(*fridge, rel.InviteeID),
			JoinedAt:   rel.CreatedAt,
			RelationID: rel.RelationID,
		})
	}

	sort.SliceStable(members, func(i, j int) bool {
		iOwner := members[i].Role == RoleOwner
		jOwner := members[j].Role == RoleOwner
		if iOwner != jOwner {
			return iOwner
		}
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].RelationID < members[j].RelationID
	})
	return members, nil
}

// ReconcileMemberCounts repairs stale member counts.
func (s *Service) ReconcileMemberCounts(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	fixed, err := s.catalog.ReconcileMemberCounts(ctx)
	if err != nil {
		return 0, err
	}
	if fixed > 0 {
		s.cache.Clear()
		s.log.Warn("catalog: repaired stale member counts", "count", fixed)
	}
	return fixed, nil
}

// ResetAllData removes the three collection documents. The current user
// is kept.
func (s *Service) ResetAllData(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	defer s.cache.Clear()

	for _, key := range []string{KeyRefrigerators, KeyRefrigeratorUsers, KeyUserProfiles} {
		if err := s.repo.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) mustGetFridge(ctx context.Context, id int) (*Refrigerator, error) {
	fridge, err := s.catalog.GetFridgeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fridge == nil {
		return nil, ErrFridgeNotFound
	}
	return fridge, nil
}

func (s *Service) observe(operation string, err *error) {
	s.metrics.ObserveOperation(operation, Code(*err))
}
