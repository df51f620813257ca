package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/auth"
	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/observability"
	"github.com/spec-kit/placement-service/internal/repository"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

var (
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	contactPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

const (
	minPasswordLength = 6
	// bcrypt rejects longer inputs.
	maxPasswordLength = 72
	maxIDAttempts     = 3
)

// AuthService verifies credentials, registers principals and issues tokens.
type AuthService struct {
	students   repository.StudentRepository
	admins     repository.AdminRepository
	tokens     *auth.TokenManager
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	idPrefix   string
	newID      func() string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Students        repository.StudentRepository
	Admins          repository.AdminRepository
	Tokens          *auth.TokenManager
	Hasher          *auth.PasswordHasher
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
	StudentIDPrefix string
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		students:   deps.Students,
		admins:     deps.Admins,
		tokens:     deps.Tokens,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger.With(zap.String("component", "authenticator")),
		idPrefix:   deps.StudentIDPrefix,
		newID:      randomIDSuffix,
	}
}

// Session is the outcome of a successful login or registration.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Class     domain.PrincipalClass
	Role      domain.Role
	Student   *domain.Student
	Admin     *domain.Admin
}

// Subject returns the identifier embedded in the token.
func (s *Session) Subject() string {
	if s.Student != nil {
		return s.Student.StudentID
	}
	if s.Admin != nil {
		return s.Admin.Email
	}
	return ""
}

// StudentRegistration carries self-registration input.
type StudentRegistration struct {
	FirstName string
	LastName  string
	Email     string
	Contact   string
	Password  string
}

// AdminRegistration carries admin creation input.
type AdminRegistration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// Login verifies a password for one principal class. Unknown identifiers and
// wrong passwords produce the same InvalidCredentials error.
func (s *AuthService) Login(ctx context.Context, identifier, password string, class domain.PrincipalClass) (*Session, error) {
	identifier = normalizeEmail(identifier)
	var (
		session *Session
		err     error
	)
	switch class {
	case domain.PrincipalStudent:
		session, err = s.loginStudent(ctx, identifier, password)
	case domain.PrincipalAdmin:
		session, err = s.loginAdmin(ctx, identifier, password)
	default:
		return nil, apperrors.NewValidationError("unknown principal class", nil)
	}
	s.recordLogin(string(class), err)
	return session, err
}

// LoginAny tries the student store first and falls back to admins only when no
// student holds the identifier.
func (s *AuthService) LoginAny(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = normalizeEmail(identifier)
	student, err := s.students.GetByEmail(ctx, identifier)
	switch {
	case err == nil:
		session, err := s.studentSession(student, password)
		s.recordLogin(string(domain.PrincipalStudent), err)
		return session, err
	case !errors.Is(err, repository.ErrNotFound):
		s.recordLogin(string(domain.PrincipalStudent), err)
		return nil, s.storeError("student lookup", err)
	}
	session, err := s.loginAdmin(ctx, identifier, password)
	s.recordLogin(string(domain.PrincipalAdmin), err)
	return session, err
}

func (s *AuthService) loginStudent(ctx context.Context, email, password string) (*Session, error) {
	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.CompareMissing(password)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, s.storeError("student lookup", err)
	}
	return s.studentSession(student, password)
}

func (s *AuthService) studentSession(student *domain.Student, password string) (*Session, error) {
	if err := s.hasher.Compare(student.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return s.issueStudent(student)
}

func (s *AuthService) loginAdmin(ctx context.Context, email, password string) (*Session, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.CompareMissing(password)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, s.storeError("admin lookup", err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokens.IssueSession(admin.Email, admin.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	redacted := admin.Redacted()
	return &Session{Token: token, ExpiresAt: exp, Class: domain.PrincipalAdmin, Role: admin.Role, Admin: &redacted}, nil
}

func (s *AuthService) issueStudent(student *domain.Student) (*Session, error) {
	token, exp, err := s.tokens.IssueSession(student.StudentID, domain.RoleStudent)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	redacted := student.Redacted()
	return &Session{Token: token, ExpiresAt: exp, Class: domain.PrincipalStudent, Role: domain.RoleStudent, Student: &redacted}, nil
}

// RegisterStudent creates a student account and signs the caller in.
func (s *AuthService) RegisterStudent(ctx context.Context, in StudentRegistration) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Contact = strings.TrimSpace(in.Contact)
	if err := validateStudentRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.students.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewAlreadyExists("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.storeError("student lookup", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	student := &domain.Student{
		Email:           in.Email,
		PasswordHash:    hash,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Contact:         in.Contact,
		Role:            domain.RoleStudent,
		PlacementStatus: domain.PlacementUnplaced,
		CurrentStep:     1,
	}

	for attempt := 1; ; attempt++ {
		student.StudentID = s.idPrefix + s.newID()
		err = s.students.Create(ctx, student)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, s.storeError("student create", err)
		}
		// The store rejected either the email or the generated id.
		if _, lookupErr := s.students.GetByEmail(ctx, in.Email); lookupErr == nil {
			return nil, apperrors.NewAlreadyExists("email already registered")
		}
		if attempt >= maxIDAttempts {
			return nil, apperrors.NewInternalError(err)
		}
		s.logger.Warn("student id collision, retrying", zap.Int("attempt", attempt))
	}

	s.publish(ctx, events.Event{
		Type:  events.EventStudentRegistered,
		Actor: events.Actor{Role: domain.RoleStudent, Subject: student.StudentID},
		Payload: events.StudentRegisteredPayload{
			StudentID: student.StudentID,
			Email:     student.Email,
			FirstName: student.FirstName,
		},
	})
	s.logger.Info("student registered", zap.String("student_id", student.StudentID))
	return s.issueStudent(student)
}

// CreateAdmin registers a new admin. Callers are expected to have passed the super-admin guard.
func (s *AuthService) CreateAdmin(ctx context.Context, in AdminRegistration) (*domain.Admin, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Role == "" {
		in.Role = domain.RoleAdmin
	}
	if err := validateAdminRegistration(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.Admin{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewAlreadyExists("admin already exists")
		}
		return nil, s.storeError("admin create", err)
	}
	s.logger.Info("admin created", zap.String("email", admin.Email), zap.String("role", string(admin.Role)))
	redacted := admin.Redacted()
	return &redacted, nil
}

func (s *AuthService) storeError(op string, err error) error {
	s.logger.Error("credential store failure", zap.String("op", op), zap.Error(err))
	return apperrors.NewUpstreamUnavailable(err)
}

func (s *AuthService) recordLogin(class string, err error) {
	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(apperrors.CodeOf(err))
	}
	s.metrics.RecordLogin(class, outcome)
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateStudentRegistration(in StudentRegistration) error {
	details := map[string]any{}
	if in.FirstName == "" {
		details["first_name"] = "required"
	}
	if in.LastName == "" {
		details["last_name"] = "required"
	}
	if !emailPattern.MatchString(in.Email) {
		details["email"] = "must be a valid email address"
	}
	if !contactPattern.MatchString(in.Contact) {
		details["contact"] = "must be exactly 10 digits"
	}
	if len(in.Password) < minPasswordLength {
		details["password"] = "must be at least 6 characters"
	} else if len(in.Password) > maxPasswordLength {
		details["password"] = "must be at most 72 bytes"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

func validateAdminRegistration(in AdminRegistration) error {
	details := map[string]any{}
	if in.FirstName == "" {
		details["first_name"] = "required"
	}
	if in.LastName == "" {
		details["last_name"] = "required"
	}
	if !emailPattern.MatchString(in.Email) {
		details["email"] = "must be a valid email address"
	}
	if len(in.Password) < minPasswordLength {
		details["password"] = "must be at least 6 characters"
	} else if len(in.Password) > maxPasswordLength {
		details["password"] = "must be at most 72 bytes"
	}
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleSuperAdmin {
		details["role"] = "must be admin or superadmin"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid admin", details)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomIDSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
