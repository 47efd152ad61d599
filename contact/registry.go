package contact

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"
)

const formTable = "form"

type session struct {
	ID      string
	Expires int64
	Form    *Form
}

// Registry keeps one Form per visitor session, in memory only.
type Registry struct {
	mu      sync.Mutex
	db      *memdb.MemDB
	ttl     time.Duration
	newForm func() *Form
	now     func() time.Time
}

func NewRegistry(ttl time.Duration, newForm func() *Form) (*Registry, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			formTable: {
				Name: formTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"expires": {
						Name:    "expires",
						Unique:  false,
						Indexer: &memdb.IntFieldIndex{Field: "Expires"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("creating form registry: %w", err)
	}
	return &Registry{db: db, ttl: ttl, newForm: newForm, now: time.Now}, nil
}

// Open installs a fresh idle form for the session, dropping any previous one.
func (r *Registry) Open(id string) (*Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	form := r.newForm()
	if err := r.put(id, form); err != nil {
		return nil, err
	}
	return form, nil
}

// Get returns the session's form, creating one when there is none. Every call
// extends the session's lifetime.
func (r *Registry) Get(id string) (*Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn := r.db.Txn(false)
	raw, err := txn.First(formTable, "id", id)
	txn.Abort()
	if err != nil {
		return nil, fmt.Errorf("looking up form %s: %w", id, err)
	}

	var form *Form
	if raw != nil {
		form = raw.(*session).Form
	} else {
		form = r.newForm()
	}
	if err := r.put(id, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (r *Registry) put(id string, form *Form) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	s := &session{
		ID:      id,
		Expires: r.now().Add(r.ttl).Unix(),
		Form:    form,
	}
	if err := txn.Insert(formTable, s); err != nil {
		return fmt.Errorf("storing form %s: %w", id, err)
	}
	txn.Commit()
	return nil
}

// Sweep removes sessions that expired before now and whose form is not
// pending. It returns the number of removed sessions.
func (r *Registry) Sweep(now time.Time) (int, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(formTable, "id")
	if err != nil {
		return 0, err
	}

	var expired []*session
	for obj := it.Next(); obj != nil; obj = it.Next() {
		s := obj.(*session)
		if s.Expires >= now.Unix() || s.Form.State().IsPending() {
			continue
		}
		expired = append(expired, s)
	}

	for _, s := range expired {
		if err := txn.Delete(formTable, s); err != nil {
			return 0, err
		}
	}
	txn.Commit()
	return len(expired), nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(formTable, "id")
	if err != nil {
		return 0
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}
