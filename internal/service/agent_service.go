package service

import (
	"context"
	"errors"
	"time"

	"supportmatch-go/internal/model"
	"supportmatch-go/internal/repository"
	"supportmatch-go/pkg/database"
	"supportmatch-go/pkg/hash"
	"supportmatch-go/pkg/token"

	"gorm.io/gorm"
)

// AgentService defines account operations for support agents.
type AgentService interface {
	Register(username, password string) (*model.Agent, error)
	Login(username, password string) (accessToken, refreshToken string, err error)
	GetProfile(username string) (*model.Agent, error)
	Logout(tokenString string) error
	RefreshToken(refreshTokenString string) (newAccessToken, newRefreshToken string, err error)
}

type agentService struct {
	agentRepo  repository.AgentRepository
	jwtManager *token.JWTManager
}

// NewAgentService creates a new AgentService instance.
func NewAgentService(agentRepo repository.AgentRepository, jwtManager *token.JWTManager) AgentService {
	return &agentService{
		agentRepo:  agentRepo,
		jwtManager: jwtManager,
	}
}

// Register creates a new agent account.
func (s *agentService) Register(username, password string) (*model.Agent, error) {
	_, err := s.agentRepo.FindByUsername(username)
	if err == nil {
		return nil, errors.New("username already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newAgent := &model.Agent{
		Username: username,
		Password: hashedPassword,
		Role:     "AGENT",
	}
	if err := s.agentRepo.Create(newAgent); err != nil {
		return nil, err
	}
	return newAgent, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *agentService) Login(username, password string) (accessToken, refreshToken string, err error) {
	agent, err := s.agentRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", errors.New("invalid credentials")
		}
		return "", "", err
	}

	if !hash.CheckPasswordHash(password, agent.Password) {
		return "", "", errors.New("invalid credentials")
	}

	accessToken, err = s.jwtManager.GenerateToken(agent.ID, agent.Username, agent.Role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.jwtManager.GenerateRefreshToken(agent.ID, agent.Username, agent.Role)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GetProfile returns the agent for a username.
func (s *agentService) GetProfile(username string) (*model.Agent, error) {
	return s.agentRepo.FindByUsername(username)
}

// Logout blacklists the token in Redis for its remaining lifetime.
func (s *agentService) Logout(tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return err
	}
	expiration := time.Until(claims.ExpiresAt.Time)
	return database.RDB.Set(context.Background(), "blacklist:"+tokenString, "true", expiration).Err()
}

// RefreshToken verifies a refresh token and issues a fresh token pair.
func (s *agentService) RefreshToken(refreshTokenString string) (newAccessToken, newRefreshToken string, err error) {
	claims, err := s.jwtManager.VerifyToken(refreshTokenString)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	agent, err := s.agentRepo.FindByUsername(claims.Username)
	if err != nil {
		return "", "", errors.New("agent not found")
	}

	newAccessToken, err = s.jwtManager.GenerateToken(agent.ID, agent.Username, agent.Role)
	if err != nil {
		return "", "", err
	}
	newRefreshToken, err = s.jwtManager.GenerateRefreshToken(agent.ID, agent.Username, agent.Role)
	if err != nil {
		return "", "", err
	}

	return newAccessToken, newRefreshToken, nil
}
