// api/dao/role_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	harvest_neo4j "github.com/harvestlink/market/api/model/neo4j"
)

const defaultRoleQueryTimeout = 5 * time.Second

// RoleDAO keeps role assignments as (:User)-[:HAS_ROLE]->(:Role) edges.
type RoleDAO struct {
	Driver  neo4j.DriverWithContext
	Timeout time.Duration
}

func NewRoleDAO(driver neo4j.DriverWithContext) *RoleDAO {
	dao := &RoleDAO{Driver: driver, Timeout: defaultRoleQueryTimeout}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Role", zap.Error(err))
	}
	return dao
}

func (dao *RoleDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraints on User ID and Role name")
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	queries := []string{
		`CREATE CONSTRAINT unique_user_id IF NOT EXISTS
		FOR (u:` + harvest_neo4j.LabelUser + `) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_role_name IF NOT EXISTS
		FOR (r:` + harvest_neo4j.LabelRole + `) REQUIRE r.name IS UNIQUE`,
	}
	for _, query := range queries {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
			_, err := tx.Run(ctx, query, nil)
			return nil, err
		})
		if err != nil {
			logger.Error("Failed to ensure unique constraint", zap.Error(err))
			return err
		}
	}

	logger.Info("Successfully ensured unique constraints")
	return nil
}

// RolesOf returns the names of the roles assigned to userID. An unknown
// user has no roles.
func (dao *RoleDAO) RolesOf(ctx context.Context, userID string) ([]string, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, dao.Timeout)
	defer cancel()

	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
		MATCH (u:` + harvest_neo4j.LabelUser + ` {id: $userID})-[:` + harvest_neo4j.RelHasRole + `]->(r:` + harvest_neo4j.LabelRole + `)
		RETURN r.name AS name
		ORDER BY name
		`
		res, err := tx.Run(ctx, query, map[string]interface{}{"userID": userID})
		if err != nil {
			return nil, err
		}

		roles := []string{}
		for res.Next(ctx) {
			if name, ok := res.Record().Values[0].(string); ok {
				roles = append(roles, name)
			}
		}
		return roles, res.Err()
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to look up roles",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		return nil, fmt.Errorf("roles of %s: %v: %w", userID, err, harvest_errors.ErrRoleLookupFailed)
	}

	roles := result.([]string)
	logger.Debug("Roles looked up",
		zap.String("userID", userID),
		zap.Strings("roles", roles),
		zap.Duration("duration", duration))
	return roles, nil
}

// AssignRole grants role to userID. Assigning a held role is a no-op.
func (dao *RoleDAO) AssignRole(ctx context.Context, userID, role string) error {
	query := `
	MERGE (u:` + harvest_neo4j.LabelUser + ` {id: $userID})
	MERGE (r:` + harvest_neo4j.LabelRole + ` {name: $role})
	MERGE (u)-[h:` + harvest_neo4j.RelHasRole + `]->(r)
	ON CREATE SET h.assignedAt = $now
	`
	return dao.write(ctx, "assign role", query, map[string]interface{}{
		"userID": userID,
		"role":   role,
		"now":    time.Now().UTC().Format(time.RFC3339),
	})
}

// RevokeRole removes role from userID. Revoking a role that is not held is
// a no-op.
func (dao *RoleDAO) RevokeRole(ctx context.Context, userID, role string) error {
	query := `
	MATCH (u:` + harvest_neo4j.LabelUser + ` {id: $userID})-[h:` + harvest_neo4j.RelHasRole + `]->(r:` + harvest_neo4j.LabelRole + ` {name: $role})
	DELETE h
	`
	return dao.write(ctx, "revoke role", query, map[string]interface{}{
		"userID": userID,
		"role":   role,
	})
}

func (dao *RoleDAO) write(ctx context.Context, op, query string, params map[string]interface{}) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, dao.Timeout)
	defer cancel()

	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		logger.Error("Role write failed",
			zap.Error(err),
			zap.String("op", op),
			zap.Any("params", params),
			zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("%s: %v: %w", op, err, harvest_errors.ErrUpstreamUnavailable)
	}

	logger.Info("Role write succeeded",
		zap.String("op", op),
		zap.Any("params", params),
		zap.Duration("duration", time.Since(start)))
	return nil
}
