package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
	"github.com/jhoicas/agenda-citas-api/pkg/jwt"
)

const minPasswordLen = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, alta de usuarios y usuarios por defecto.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log}
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.Invalid("username", "usuario y contraseña requeridos")
	}
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.Storage("obtener usuario", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	// El token lleva las capacidades ya resueltas; el middleware no vuelve a aplicar la política.
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes,
		user.ID, user.Username, user.Role, access.Strings(user.Permissions().List()))
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.FromUser(user),
	}, nil
}

// CreateUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve domain.ErrDuplicate si el username ya existe.
func (uc *AuthUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, domain.Invalid("username", "requerido")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("password", "mínimo 6 caracteres")
	}
	role := in.Role
	if role == "" {
		role = access.RoleUser
	}
	if role != access.RoleAdmin && role != access.RoleUser {
		return nil, domain.Invalid("role", "debe ser admin o user")
	}
	var custom []access.Permission
	if in.Permisos != nil {
		custom = make([]access.Permission, 0, len(in.Permisos))
		for _, raw := range in.Permisos {
			p := access.Permission(strings.ToLower(strings.TrimSpace(raw)))
			if !p.Valid() {
				return nil, domain.Invalid("permisos", "permiso desconocido: "+raw)
			}
			custom = append(custom, p)
		}
	}

	user, err := uc.create(ctx, username, in.Password, role, custom)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

func (uc *AuthUseCase) create(ctx context.Context, username, password, role string, custom []access.Permission) (*entity.User, error) {
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.Storage("obtener usuario", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:                uuid.New().String(),
		Username:          username,
		PasswordHash:      string(hash),
		Role:              role,
		CustomPermissions: custom,
		CreatedAt:         time.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, domain.Storage("crear usuario", err)
	}
	return user, nil
}

// DefaultUsers contraseñas de los usuarios por defecto; vacía = no se crea.
type DefaultUsers struct {
	AdminPassword string
	UserPassword  string
}

// EnsureDefaultUsers crea "admin" (rol admin) y "usuario" (permisos create y read)
// si no existen. Es idempotente.
func (uc *AuthUseCase) EnsureDefaultUsers(ctx context.Context, d DefaultUsers) error {
	seeds := []struct {
		username, password, role string
		custom                   []access.Permission
	}{
		{"admin", d.AdminPassword, access.RoleAdmin, nil},
		{"usuario", d.UserPassword, access.RoleUser, []access.Permission{access.PermCreate, access.PermRead}},
	}
	for _, s := range seeds {
		if s.password == "" {
			continue
		}
		_, err := uc.create(ctx, s.username, s.password, s.role, s.custom)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			continue
		case err != nil:
			return err
		}
		uc.log.Info().Str("username", s.username).Str("role", s.role).Msg("usuario por defecto creado")
	}
	return nil
}
