package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// The role set is closed, so the route-level policy is static. Column-level
// view/edit decisions live in the permission matrix, not here.
var policies = [][]string{
	{domain.RoleHRAdmin.String(), "employee", "read"},
	{domain.RoleHRAdmin.String(), "employee", "manage"},
	{domain.RoleHRAdmin.String(), "employee", "patch"},
	{domain.RoleHRAdmin.String(), "column", "read"},
	{domain.RoleHRAdmin.String(), "column", "update"},
	{domain.RoleHRAdmin.String(), "column", "manage"},
	{domain.RoleHRAdmin.String(), "user", "manage"},

	{domain.RoleCatering.String(), "employee", "read"},
	{domain.RoleCatering.String(), "employee", "patch"},
	{domain.RoleCatering.String(), "column", "read"},
	{domain.RoleCatering.String(), "column", "create"},
	{domain.RoleCatering.String(), "column", "update"},
	{domain.RoleCatering.String(), "partydata", "read"},
	{domain.RoleCatering.String(), "partydata", "write"},

	{domain.RoleMedical.String(), "employee", "read"},
	{domain.RoleMedical.String(), "employee", "patch"},
	{domain.RoleMedical.String(), "column", "read"},
	{domain.RoleMedical.String(), "column", "create"},
	{domain.RoleMedical.String(), "column", "update"},
	{domain.RoleMedical.String(), "partydata", "read"},
	{domain.RoleMedical.String(), "partydata", "write"},

	{domain.RolePayroll.String(), "employee", "read"},
	{domain.RolePayroll.String(), "employee", "patch"},
	{domain.RolePayroll.String(), "column", "read"},
	{domain.RolePayroll.String(), "column", "create"},
	{domain.RolePayroll.String(), "column", "update"},
	{domain.RolePayroll.String(), "partydata", "read"},
	{domain.RolePayroll.String(), "partydata", "write"},

	{domain.RoleFacilities.String(), "employee", "read"},
	{domain.RoleFacilities.String(), "employee", "patch"},
	{domain.RoleFacilities.String(), "column", "read"},
	{domain.RoleFacilities.String(), "column", "create"},
	{domain.RoleFacilities.String(), "column", "update"},
	{domain.RoleFacilities.String(), "partydata", "read"},
	{domain.RoleFacilities.String(), "partydata", "write"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role domain.Role, resource, action string) (bool, error)
	PoliciesForRole(role domain.Role) [][]string
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(role domain.Role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(role.String(), resource, action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("role", role.String()),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("role", role.String()),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) PoliciesForRole(role domain.Role) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.enforcer.GetFilteredPolicy(0, role.String())
	if err != nil {
		return nil
	}
	return out
}
