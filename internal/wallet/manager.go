package wallet

import (
	"errors"
	"fmt"
	"time"
)

// Account types.
const (
	TypeWatchOnly = "watch-only"
	TypeSigning   = "signing"
)

// Errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// Account holds metadata for one stored account. Signing accounts keep the
// key in the keystore; only its reference lives here.
type Account struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Type      string `json:"type"`
	KeyRef    string `json:"key_ref,omitempty"`
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

// Store persists account metadata.
type Store interface {
	Load() ([]*Account, error)
	Save([]*Account) error
}

// Manager handles account CRUD and hands out Signers for signing accounts.
type Manager struct {
	store    Store
	keystore KeystoreBackend
	accounts map[string]*Account
	loaded   bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore sets a custom metadata store.
func WithStore(s Store) ManagerOption {
	return func(m *Manager) { m.store = s }
}

// WithKeystore sets a custom key storage backend.
func WithKeystore(k KeystoreBackend) ManagerOption {
	return func(m *Manager) { m.keystore = k }
}

// NewManager creates an account manager. Without options it keeps metadata
// in memory and keys in the OS keychain.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		accounts: make(map[string]*Account),
		store:    &memStore{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.keystore == nil {
		m.keystore = DefaultKeystore()
	}
	return m
}

// AddWatchOnly registers an address without a key.
func (m *Manager) AddWatchOnly(name, address string) error {
	if err := m.load(); err != nil {
		return err
	}
	if _, exists := m.accounts[name]; exists {
		return ErrAccountExists
	}
	m.accounts[name] = &Account{
		Name:      name,
		Address:   address,
		Type:      TypeWatchOnly,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return m.persist()
}

// ImportKey validates a hex private key, stores it in the keystore and
// registers a signing account for its derived address.
func (m *Manager) ImportKey(name, hexKey string) (*Account, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	if _, exists := m.accounts[name]; exists {
		return nil, ErrAccountExists
	}

	signer, err := New(hexKey)
	if err != nil {
		return nil, err
	}

	ref, err := m.keystore.Store(name, stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("storing key: %w", err)
	}

	acct := &Account{
		Name:      name,
		Address:   signer.Address().Hex(),
		Type:      TypeSigning,
		KeyRef:    ref,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	m.accounts[name] = acct
	return acct, m.persist()
}

// Get returns an account by name.
func (m *Manager) Get(name string) (*Account, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	a, ok := m.accounts[name]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// SignerFor rebuilds a Signer from the stored key of a signing account.
func (m *Manager) SignerFor(name string) (*Signer, error) {
	a, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	if a.Type != TypeSigning {
		return nil, fmt.Errorf("account %q is watch-only and cannot sign", name)
	}
	hexKey, err := m.keystore.Retrieve(a.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}
	return New(hexKey)
}

// Remove deletes an account and its stored key, if any.
func (m *Manager) Remove(name string) error {
	if err := m.load(); err != nil {
		return err
	}
	a, ok := m.accounts[name]
	if !ok {
		return ErrAccountNotFound
	}
	if a.KeyRef != "" {
		if err := m.keystore.Delete(a.KeyRef); err != nil {
			return fmt.Errorf("deleting key: %w", err)
		}
	}
	delete(m.accounts, name)
	return m.persist()
}

// List returns all accounts.
func (m *Manager) List() []*Account {
	m.load() //nolint:errcheck
	out := make([]*Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out
}

// SetDefault marks an account as the default.
func (m *Manager) SetDefault(name string) error {
	if err := m.load(); err != nil {
		return err
	}
	if _, ok := m.accounts[name]; !ok {
		return ErrAccountNotFound
	}
	for _, a := range m.accounts {
		a.IsDefault = a.Name == name
	}
	return m.persist()
}

// Default returns the default account, or nil if none is marked and more
// than one exists.
func (m *Manager) Default() *Account {
	m.load() //nolint:errcheck
	for _, a := range m.accounts {
		if a.IsDefault {
			return a
		}
	}
	if len(m.accounts) == 1 {
		for _, a := range m.accounts {
			return a
		}
	}
	return nil
}

func (m *Manager) load() error {
	if m.loaded {
		return nil
	}
	accounts, err := m.store.Load()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		m.accounts[a.Name] = a
	}
	m.loaded = true
	return nil
}

func (m *Manager) persist() error {
	accounts := make([]*Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	return m.store.Save(accounts)
}

type memStore struct {
	accounts []*Account
}

func (s *memStore) Load() ([]*Account, error) { return s.accounts, nil }

func (s *memStore) Save(accounts []*Account) error {
	s.accounts = accounts
	return nil
}
