package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/constants"
	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// UserService owns accounts and authentication.
type UserService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte

	now func() time.Time
}

func NewUserService(userRepo repositories.UserRepository, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

func (s *UserService) Signup(ctx context.Context, req dtos.SignupRequest) (*dtos.AuthResponse, error) {
	role := models.RoleType(req.Role)
	if !role.Valid() {
		return nil, utils.NewFieldError("role", "unknown role "+req.Role)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	utils.Logger.WithField("email", user.Email).Info("User signed up")
	return &dtos.AuthResponse{Success: true, Token: token, User: *user}, nil
}

func (s *UserService) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, utils.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchActivity(ctx, user.ID); err != nil {
		utils.Logger.WithError(err).Warn("Failed to stamp recent activity")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &dtos.AuthResponse{Success: true, Token: token, User: *user}, nil
}

func (s *UserService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":    user.ID.String(),
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(constants.AuthTokenTTLHours * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update applies admin edits. The password hash is recomputed only
// when a new password arrives; other edits leave it untouched.
func (s *UserService) Update(ctx context.Context, actor dtos.Actor, id uuid.UUID, req dtos.UpdateUserRequest) (*models.User, error) {
	if err := requirePermission(actor, ActionManageUsers); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		role := models.RoleType(*req.Role)
		if !role.Valid() {
			return nil, utils.NewFieldError("role", "unknown role "+*req.Role)
		}
		user.Role = role
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, actor dtos.Actor, id uuid.UUID) error {
	if err := requirePermission(actor, ActionManageUsers); err != nil {
		return err
	}
	if actor.ID == id {
		return utils.NewFieldError("id", "cannot delete own account")
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) List(ctx context.Context, actor dtos.Actor, req dtos.UserListRequest) (*dtos.UserListResponse, error) {
	if err := requirePermission(actor, ActionManageUsers); err != nil {
		return nil, err
	}

	for _, r := range req.Filter.RoleFilter {
		if !models.RoleType(r).Valid() {
			return nil, utils.NewFieldError("roleFilter", "unknown role "+r)
		}
	}

	c := dtos.UserCriteria{
		Name:     req.Params.Name,
		RoleIn:   req.Filter.RoleFilter,
		Page:     req.Params.Current,
		PageSize: req.Params.PageSize,
	}
	normalizePaging(&c.Page, &c.PageSize)

	switch req.Sorter.NameSorter {
	case "":
	case "ascend":
		c.NameDesc = utils.Ptr(false)
	case "descend":
		c.NameDesc = utils.Ptr(true)
	default:
		return nil, utils.NewFieldError("nameSorter", "unknown sort direction "+req.Sorter.NameSorter)
	}

	users, total, err := s.userRepo.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	return &dtos.UserListResponse{Success: true, Users: users, TotalUsers: total}, nil
}
