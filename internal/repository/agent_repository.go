package repository

import (
	"supportmatch-go/internal/model"

	"gorm.io/gorm"
)

// AgentRepository defines persistence operations for agent accounts.
type AgentRepository interface {
	Create(agent *model.Agent) error
	FindByUsername(username string) (*model.Agent, error)
	FindByID(agentID uint) (*model.Agent, error)
	Update(agent *model.Agent) error
}

type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new AgentRepository instance.
func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

// Create inserts a new agent account.
func (r *agentRepository) Create(agent *model.Agent) error {
	return r.db.Create(agent).Error
}

// FindByUsername looks up an agent by username.
func (r *agentRepository) FindByUsername(username string) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.Where("username = ?", username).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindByID looks up an agent by primary key.
func (r *agentRepository) FindByID(agentID uint) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.First(&agent, agentID).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// Update saves changes to an existing agent account.
func (r *agentRepository) Update(agent *model.Agent) error {
	return r.db.Save(agent).Error
}
