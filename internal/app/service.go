package app

import (
	"context"
	"fmt"
	"sync"

	"ticklist/internal/appwrite"
	"ticklist/internal/config"
)

// maxContentLength matches the size of the content attribute on the
// platform collection.
const maxContentLength = 128

// PlatformDatabases is the slice of the platform's database API the service
// uses. Implemented by *appwrite.Databases, faked in tests.
type PlatformDatabases interface {
	ListAttributes(ctx context.Context) ([]appwrite.Attribute, error)
	CreateStringAttribute(ctx context.Context, key string, size int, required bool) error
	ListDocuments(ctx context.Context) ([]appwrite.Document, error)
	CreateDocument(ctx context.Context, documentID string, data map[string]any, permissions []string) (appwrite.Document, error)
	UpdateDocument(ctx context.Context, documentID string, data map[string]any) (appwrite.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// PlatformAccount is the slice of the platform's account API the service
// uses.
type PlatformAccount interface {
	Create(ctx context.Context, userID, email, password, name string) (appwrite.User, error)
	CreateEmailSession(ctx context.Context, email, password string) (appwrite.Session, error)
	CreateAnonymousSession(ctx context.Context) (appwrite.Session, error)
	Get(ctx context.Context) (appwrite.User, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Item is the view shape rendered into templates.
type Item struct {
	ID      string
	Content string
}

// Service orchestrates the platform calls behind the HTTP handlers. The
// factory fields build a fresh capability-scoped handle per call; nothing is
// pooled or cached between requests.
type Service struct {
	cfg config.Config

	adminDatabases func() PlatformDatabases
	userDatabases  func(sessionSecret string) PlatformDatabases
	adminAccount   func() PlatformAccount
	anonAccount    func() PlatformAccount
	userAccount    func(sessionSecret string) PlatformAccount

	bootstrapOnce sync.Once
	bootstrapErr  error
}

func New(cfg config.Config) *Service {
	s := &Service{cfg: cfg}
	s.adminDatabases = func() PlatformDatabases {
		return s.databases(appwrite.APIKey(cfg.APIKey))
	}
	s.userDatabases = func(sessionSecret string) PlatformDatabases {
		return s.databases(appwrite.SessionToken(sessionSecret))
	}
	s.adminAccount = func() PlatformAccount {
		return s.account(appwrite.APIKey(cfg.APIKey))
	}
	s.anonAccount = func() PlatformAccount {
		return s.account(appwrite.Anonymous())
	}
	s.userAccount = func(sessionSecret string) PlatformAccount {
		return s.account(appwrite.SessionToken(sessionSecret))
	}
	return s
}

func (s *Service) databases(auth appwrite.Auth) *appwrite.Databases {
	client := appwrite.New(s.cfg.Endpoint, s.cfg.ProjectID, auth)
	return appwrite.NewDatabases(client, s.cfg.DatabaseID, s.cfg.CollectionID)
}

func (s *Service) account(auth appwrite.Auth) *appwrite.Account {
	return appwrite.NewAccount(appwrite.New(s.cfg.Endpoint, s.cfg.ProjectID, auth))
}

// ListItems fetches the documents the session's user may read. Filtering is
// the platform's job; nothing is filtered locally.
func (s *Service) ListItems(ctx context.Context, sessionSecret string) ([]Item, error) {
	docs, err := s.userDatabases(sessionSecret).ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, Item{ID: doc.ID, Content: doc.Content})
	}
	return items, nil
}

// CreateItem persists a new document owned by userID. It runs on the admin
// credential: the owner grants cannot authorize the write that first creates
// them.
func (s *Service) CreateItem(ctx context.Context, userID, content string) (Item, error) {
	doc, err := s.adminDatabases().CreateDocument(ctx, appwrite.UniqueID(),
		map[string]any{"content": content},
		appwrite.OwnerPermissions(userID))
	if err != nil {
		return Item{}, fmt.Errorf("create document: %w", err)
	}
	return Item{ID: doc.ID, Content: content}, nil
}

// UpdateItem rewrites a document's content on the user credential, so the
// platform enforces the update grant.
func (s *Service) UpdateItem(ctx context.Context, sessionSecret, itemID, content string) (Item, error) {
	doc, err := s.userDatabases(sessionSecret).UpdateDocument(ctx, itemID,
		map[string]any{"content": content})
	if err != nil {
		return Item{}, fmt.Errorf("update document: %w", err)
	}
	return Item{ID: doc.ID, Content: content}, nil
}

// DeleteItem removes a document on the user credential.
func (s *Service) DeleteItem(ctx context.Context, sessionSecret, itemID string) error {
	if err := s.userDatabases(sessionSecret).DeleteDocument(ctx, itemID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Register creates a platform account and immediately signs it in.
func (s *Service) Register(ctx context.Context, email, password, name string) (appwrite.Session, appwrite.User, error) {
	user, err := s.anonAccount().Create(ctx, appwrite.UniqueID(), email, password, name)
	if err != nil {
		return appwrite.Session{}, appwrite.User{}, fmt.Errorf("create account: %w", err)
	}
	platformSession, err := s.adminAccount().CreateEmailSession(ctx, email, password)
	if err != nil {
		return appwrite.Session{}, appwrite.User{}, fmt.Errorf("create session: %w", err)
	}
	return platformSession, user, nil
}

// Login exchanges credentials for a platform session, then fetches the
// account with a client authenticated by the fresh session.
func (s *Service) Login(ctx context.Context, email, password string) (appwrite.Session, appwrite.User, error) {
	platformSession, err := s.adminAccount().CreateEmailSession(ctx, email, password)
	if err != nil {
		return appwrite.Session{}, appwrite.User{}, fmt.Errorf("create session: %w", err)
	}
	user, err := s.userAccount(platformSession.Secret).Get(ctx)
	if err != nil {
		return appwrite.Session{}, appwrite.User{}, fmt.Errorf("fetch account: %w", err)
	}
	return platformSession, user, nil
}

// GuestLogin creates an anonymous platform session.
func (s *Service) GuestLogin(ctx context.Context) (appwrite.Session, error) {
	platformSession, err := s.adminAccount().CreateAnonymousSession(ctx)
	if err != nil {
		return appwrite.Session{}, fmt.Errorf("create anonymous session: %w", err)
	}
	return platformSession, nil
}

// Logout asks the platform to drop the session behind the given secret.
// Callers treat failures as advisory; local state is cleared either way.
func (s *Service) Logout(ctx context.Context, sessionSecret string) error {
	return s.userAccount(sessionSecret).DeleteSession(ctx, "current")
}
