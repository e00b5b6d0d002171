package service

import (
	"context"
	"errors"
	"time"

	"leadhub/internal/config"
	"leadhub/internal/dto"
	"leadhub/internal/model"
	"leadhub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*dto.AgentResponse, error)
	ListAgents(ctx context.Context) ([]dto.AgentResponse, error)
}

type authService struct {
	repo repository.AgentRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.AgentRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	agent, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	accessToken, err := s.generateToken(agent, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(agent, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapAgent(agent),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("malformed token")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	agent, err := s.repo.FindByID(ctx, uid)
	if err != nil || !agent.Active {
		return nil, errors.New("agent not found or inactive")
	}

	accessToken, err := s.generateToken(agent, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.generateToken(agent, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapAgent(agent),
	}, nil
}

func (s *authService) CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*dto.AgentResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	agent := &model.Agent{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, agent); err != nil {
		return nil, err
	}
	resp := mapAgent(agent)
	return &resp, nil
}

func (s *authService) ListAgents(ctx context.Context) ([]dto.AgentResponse, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		result = append(result, mapAgent(&agents[i]))
	}
	return result, nil
}

func (s *authService) generateToken(a *model.Agent, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  a.ID.String(),
		"username": a.Username,
		"role":     a.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func mapAgent(a *model.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:       a.ID.String(),
		Username: a.Username,
		FullName: a.FullName,
		Email:    a.Email,
		Role:     a.Role,
		Active:   a.Active,
	}
}
