package repository

import (
	"context"

	"leadhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgentRepository interface {
	Create(ctx context.Context, a *model.Agent) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Agent, error)
	FindByUsername(ctx context.Context, username string) (*model.Agent, error)
	List(ctx context.Context) ([]model.Agent, error)
}

type agentRepo struct{ db *gorm.DB }

func NewAgentRepository(db *gorm.DB) AgentRepository { return &agentRepo{db: db} }

func (r *agentRepo) Create(ctx context.Context, a *model.Agent) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *agentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Agent, error) {
	var a model.Agent
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *agentRepo) FindByUsername(ctx context.Context, username string) (*model.Agent, error) {
	var a model.Agent
	err := r.db.WithContext(ctx).Where("username = ? AND active = true", username).First(&a).Error
	return &a, err
}

func (r *agentRepo) List(ctx context.Context) ([]model.Agent, error) {
	var agents []model.Agent
	err := r.db.WithContext(ctx).Order("username ASC").Find(&agents).Error
	return agents, err
}
