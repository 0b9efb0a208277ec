package userfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rmoreas/library-admin/internal/domain/user"
	"github.com/rmoreas/library-admin/internal/security"
)

// ErrStorage wraps credential file problems (unreadable or unparsable).
var ErrStorage = errors.New("credential store error")

// record is the on-disk shape: {"<username>": {"password": ..., "role": ..., "name": ...}}
type record struct {
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
	Name     string    `json:"name"`
}

// UsersRepo persists users in a single JSON file. Every write is a
// full-file rewrite through a temp file + rename, so a concurrent reader
// never sees a half-written store. There is no cross-process locking.
type UsersRepo struct {
	mu   sync.Mutex
	path string
}

func NewUsersRepo(path string) *UsersRepo {
	return &UsersRepo{path: path}
}

// Load reads the store, seeding the two default accounts on first run.
func (r *UsersRepo) Load() (map[string]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadLocked()
}

func (r *UsersRepo) loadLocked() (map[string]user.User, error) {
	raw, err := os.ReadFile(r.path)

	if errors.Is(err, os.ErrNotExist) {
		seeded, err := seedUsers()
		if err != nil {
			return nil, err
		}

		if err := r.saveLocked(seeded); err != nil {
			return nil, err
		}

		return seeded, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, r.path, err)
	}

	var records map[string]record

	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrStorage, r.path, err)
	}

	users := make(map[string]user.User, len(records))

	for username, rec := range records {
		users[username] = user.User{
			Username:     username,
			PasswordHash: rec.Password,
			Name:         rec.Name,
			Role:         rec.Role,
		}
	}

	return users, nil
}

// Save overwrites the whole store.
func (r *UsersRepo) Save(users map[string]user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saveLocked(users)
}

func (r *UsersRepo) saveLocked(users map[string]user.User) error {
	records := make(map[string]record, len(users))

	for username, u := range users {
		records[username] = record{
			Password: u.PasswordHash,
			Role:     u.Role,
			Name:     u.Name,
		}
	}

	raw, err := json.MarshalIndent(records, "", "  ")

	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrStorage, err)
	}

	// write-to-temp-then-rename so readers never observe a partial file
	dir := filepath.Dir(r.path)

	tmp, err := os.CreateTemp(dir, ".users-*.json")

	if err != nil {
		return fmt.Errorf("%w: temp file: %v", ErrStorage, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", ErrStorage, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", ErrStorage, err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", ErrStorage, err)
	}

	return nil
}

// Register inserts a new user with a bcrypt-hashed password. The username
// must be free; the payload is irrelevant to the conflict check.
func (r *UsersRepo) Register(username, password, name string, role user.Role) (user.User, error) {
	if role == "" {
		role = user.RoleUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadLocked()

	if err != nil {
		return user.User{}, err
	}

	if _, taken := users[username]; taken {
		return user.User{}, user.ErrUserExists
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return user.User{}, err
	}

	u := user.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}

	users[username] = u

	if err := r.saveLocked(users); err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Authenticate verifies username + password. An unknown username and a
// wrong password return the same error on purpose: the caller must not be
// able to tell which field was wrong.
func (r *UsersRepo) Authenticate(username, password string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadLocked()

	if err != nil {
		return user.User{}, err
	}

	u, ok := users[username]

	if !ok {
		return user.User{}, user.ErrInvalidCredentials
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}

	return u, nil
}

func seedUsers() (map[string]user.User, error) {
	adminHash, err := security.HashPassword("admin123")
	if err != nil {
		return nil, err
	}

	userHash, err := security.HashPassword("user123")
	if err != nil {
		return nil, err
	}

	return map[string]user.User{
		"admin": {
			Username:     "admin",
			PasswordHash: adminHash,
			Name:         "Administrador",
			Role:         user.RoleAdmin,
		},
		"user": {
			Username:     "user",
			PasswordHash: userHash,
			Name:         "Usuário",
			Role:         user.RoleUser,
		},
	}, nil
}
