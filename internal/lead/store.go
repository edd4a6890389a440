package lead

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Patch holds the fields of a partial update. Nil fields are left as they
// are. Website and ContactPerson use a pointer to an empty string to clear.
type Patch struct {
	Name          *string   `json:"name,omitempty"`
	Category      *Category `json:"category,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Status        *Status   `json:"status,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	LastContact   *string   `json:"last_contact,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	Website       *string   `json:"website,omitempty"`
	ContactPerson *string   `json:"contact_person,omitempty"`
}

// PatchFrom builds a patch replacing every mutable field with l's values,
// which is what saving the lead detail view does.
func PatchFrom(l Lead) Patch {
	website, contact := "", ""
	if l.Website != nil {
		website = *l.Website
	}
	if l.ContactPerson != nil {
		contact = *l.ContactPerson
	}
	return Patch{
		Name:          &l.Name,
		Category:      &l.Category,
		Address:       &l.Address,
		Phone:         &l.Phone,
		Email:         &l.Email,
		Status:        &l.Status,
		Rating:        &l.Rating,
		LastContact:   &l.LastContact,
		Notes:         &l.Notes,
		Website:       &website,
		ContactPerson: &contact,
	}
}

func (p Patch) apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Rating != nil {
		l.Rating = *p.Rating
	}
	if p.LastContact != nil {
		l.LastContact = *p.LastContact
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.Website != nil {
		l.Website = trimOptional(p.Website)
	}
	if p.ContactPerson != nil {
		l.ContactPerson = trimOptional(p.ContactPerson)
	}
}

// ListOpts filters Find results. Zero values match everything.
type ListOpts struct {
	Category Category
	Status   Status
}

// Store is the authoritative in-memory lead collection for a session.
// Ids are allocated from a counter that only moves forward, so a deleted
// id is never handed out again.
type Store struct {
	mu       sync.RWMutex
	byID     map[int64]*Lead
	order    []int64
	nextID   int64
	now      func() time.Time
	validate *Validator
	log      *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used to stamp LastContact.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithSeed preloads leads, keeping their ids. Seeds are applied in order by
// NewStore and must pass validation.
func WithSeed(leads []Lead) StoreOption {
	return func(s *Store) {
		for _, l := range leads {
			s.order = append(s.order, l.ID)
			c := l.clone()
			s.byID[l.ID] = &c
		}
	}
}

// NewStore creates a Store. It fails when a seed lead is invalid or two
// seeds share an id.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{
		byID:     make(map[int64]*Lead),
		now:      time.Now,
		validate: NewValidator(),
		log:      zap.L().With(zap.String("component", "lead.store")),
	}
	for _, o := range opts {
		o(s)
	}

	if len(s.byID) != len(s.order) {
		return nil, eris.New("lead: seed contains duplicate ids")
	}
	for _, id := range s.order {
		l := s.byID[id]
		if id <= 0 {
			return nil, invalid("lead: seed", "id", "must be positive")
		}
		l.normalize()
		if err := s.validate.Validate("lead: seed", *l); err != nil {
			return nil, err
		}
		if id > s.nextID {
			s.nextID = id
		}
	}
	s.nextID++

	return s, nil
}

func (s *Store) today() string {
	return s.now().Format(DateLayout)
}

// Create validates l, assigns it a fresh id and stores it. Any id on l is
// ignored. Status defaults to New and LastContact to today.
func (s *Store) Create(l Lead) (*Lead, error) {
	return s.CreateChecked(l, nil)
}

// CreateChecked is Create with a precondition: check sees the current
// leads under the write lock and aborts the insert by returning an error,
// which is passed through unchanged. A nil check always passes.
func (s *Store) CreateChecked(l Lead, check func(existing []Lead) error) (*Lead, error) {
	l = l.clone()
	l.normalize()
	if l.Status == "" {
		l.Status = StatusNew
	}
	if l.LastContact == "" {
		l.LastContact = s.today()
	}
	l.ID = 0
	if err := s.validate.Validate("lead: create", l); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if check != nil {
		existing := make([]Lead, 0, len(s.order))
		for _, id := range s.order {
			existing = append(existing, s.byID[id].clone())
		}
		if err := check(existing); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	l.ID = s.nextID
	s.nextID++
	stored := l
	s.byID[l.ID] = &stored
	s.order = append(s.order, l.ID)
	s.mu.Unlock()

	s.log.Debug("lead created", zap.Int64("id", l.ID), zap.String("name", l.Name))
	return &l, nil
}

// Get returns a copy of the lead with the given id.
func (s *Store) Get(id int64) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byID[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "lead: get %d", id)
	}
	out := l.clone()
	return &out, nil
}

// Update merges p into the lead with the given id and re-validates the
// result. The stored lead is unchanged when validation fails.
func (s *Store) Update(id int64, p Patch) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "lead: update %d", id)
	}

	merged := cur.clone()
	p.apply(&merged)
	merged.normalize()
	merged.ID = id
	if err := s.validate.Validate("lead: update", merged); err != nil {
		return nil, err
	}

	if cur.Status != merged.Status {
		s.log.Debug("lead status changed",
			zap.Int64("id", id),
			zap.String("from", string(cur.Status)),
			zap.String("to", string(merged.Status)),
		)
	}

	*cur = merged
	out := merged.clone()
	return &out, nil
}

// SetStatus is the status-only update used by the pipeline view.
func (s *Store) SetStatus(id int64, status Status) (*Lead, error) {
	s.mu.RLock()
	cur, ok := s.byID[id]
	var from Status
	if ok {
		from = cur.Status
	}
	s.mu.RUnlock()
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "lead: set status %d", id)
	}
	if err := Transition(from, status); err != nil {
		return nil, err
	}
	return s.Update(id, Patch{Status: &status})
}

// Delete removes the lead with the given id. Deleting an id that is not
// present, including one already deleted, returns ErrNotFound.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return eris.Wrapf(ErrNotFound, "lead: delete %d", id)
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.log.Debug("lead deleted", zap.Int64("id", id))
	return nil
}

// List returns copies of all leads in insertion order.
func (s *Store) List() []Lead {
	return s.Find(ListOpts{})
}

// Find returns copies of the leads matching opts in insertion order.
func (s *Store) Find(opts ListOpts) []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Lead, 0, len(s.order))
	for _, id := range s.order {
		l := s.byID[id]
		if opts.Category != "" && l.Category != opts.Category {
			continue
		}
		if opts.Status != "" && l.Status != opts.Status {
			continue
		}
		out = append(out, l.clone())
	}
	return out
}

// CountByStatus returns how many leads currently have the given status.
func (s *Store) CountByStatus(status Status) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, l := range s.byID {
		if l.Status == status {
			n++
		}
	}
	return n
}

// Len returns the number of stored leads.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
