package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/identity-access/internal"
	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
	"github.com/frahmantamala/identity-access/pkg/logger"
)

func TestAuthz(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Authz Module Suite")
}

type mockPermissionStore struct {
	grants map[[2]int64]*accessModel.RolePermission

	returnError   bool
	errorToReturn error
	upserted      []accessModel.RolePermission
}

func newMockPermissionStore() *mockPermissionStore {
	return &mockPermissionStore{grants: make(map[[2]int64]*accessModel.RolePermission)}
}

func (m *mockPermissionStore) addGrant(g accessModel.RolePermission) {
	m.grants[[2]int64{g.RoleID, g.OptionID}] = &g
}

func (m *mockPermissionStore) GetPermissions(_ context.Context, roleID, optionID int64) (*accessModel.RolePermission, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.grants[[2]int64{roleID, optionID}], nil
}

func (m *mockPermissionStore) UpsertGrant(_ context.Context, grant accessModel.RolePermission) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.upserted = append(m.upserted, grant)
	m.grants[[2]int64{grant.RoleID, grant.OptionID}] = &grant
	return nil
}

type mockRoleDirectory struct {
	roles map[string]int64

	returnError   bool
	errorToReturn error
}

func (m *mockRoleDirectory) GetRoleID(_ context.Context, userID string) (int64, error) {
	if m.returnError {
		return 0, m.errorToReturn
	}
	roleID, ok := m.roles[userID]
	if !ok {
		return 0, internal.ErrAccountNotFound
	}
	return roleID, nil
}

var _ = ginkgo.Describe("Authorization Engine", func() {
	var (
		store  *mockPermissionStore
		roles  *mockRoleDirectory
		engine *Engine
		ctx    context.Context
	)

	ginkgo.BeforeEach(func() {
		store = newMockPermissionStore()
		roles = &mockRoleDirectory{roles: map[string]int64{"jdoe": 7}}
		engine = NewEngine(store, roles, logger.LoggerWrapper())
		ctx = context.Background()
	})

	ginkgo.Describe("HasPermission", func() {
		ginkgo.It("allows an action whose flag is set", func() {
			store.addGrant(accessModel.RolePermission{RoleID: 7, OptionID: OptionUsers, CanCreate: true})

			allowed, err := engine.HasPermission(ctx, "jdoe", OptionUsers, ActionCreate)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeTrue())
		})

		ginkgo.It("denies an action whose flag is unset on an existing grant", func() {
			store.addGrant(accessModel.RolePermission{RoleID: 7, OptionID: OptionUsers, CanCreate: true})

			allowed, err := engine.HasPermission(ctx, "jdoe", OptionUsers, ActionDelete)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})

		ginkgo.It("denies when no grant row exists", func() {
			allowed, err := engine.HasPermission(ctx, "jdoe", OptionUsers, ActionCreate)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})

		ginkgo.It("denies an unknown user without error", func() {
			allowed, err := engine.HasPermission(ctx, "ghost", OptionUsers, ActionCreate)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})

		ginkgo.It("surfaces role directory infrastructure failures", func() {
			roles.returnError = true
			roles.errorToReturn = errors.New("connection refused")

			_, err := engine.HasPermission(ctx, "jdoe", OptionUsers, ActionCreate)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("surfaces store infrastructure failures", func() {
			store.returnError = true
			store.errorToReturn = errors.New("connection refused")

			_, err := engine.HasPermission(ctx, "jdoe", OptionUsers, ActionCreate)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("HasAnyReadAccess", func() {
		ginkgo.It("allows when only the export flag is set", func() {
			store.addGrant(accessModel.RolePermission{RoleID: 7, OptionID: OptionCatalog, CanExport: true})

			allowed, err := engine.HasAnyReadAccess(ctx, "jdoe", OptionCatalog)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeTrue())
		})

		ginkgo.It("denies when every flag is false", func() {
			store.addGrant(accessModel.RolePermission{RoleID: 7, OptionID: OptionCatalog})

			allowed, err := engine.HasAnyReadAccess(ctx, "jdoe", OptionCatalog)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})

		ginkgo.It("denies when no grant row exists", func() {
			allowed, err := engine.HasAnyReadAccess(ctx, "jdoe", OptionCatalog)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("UpsertGrant", func() {
		ginkgo.It("writes through to the store", func() {
			grant := accessModel.RolePermission{RoleID: 7, OptionID: OptionRoleGrants, CanUpdate: true}
			gomega.Expect(engine.UpsertGrant(ctx, grant)).To(gomega.Succeed())
			gomega.Expect(store.upserted).To(gomega.HaveLen(1))

			allowed, err := engine.HasPermission(ctx, "jdoe", OptionRoleGrants, ActionUpdate)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ParseAction", func() {
		ginkgo.It("accepts the five known actions", func() {
			for _, name := range []string{"create", "delete", "update", "print", "export"} {
				_, ok := ParseAction(name)
				gomega.Expect(ok).To(gomega.BeTrue(), name)
			}
		})

		ginkgo.It("rejects unknown names", func() {
			_, ok := ParseAction("read")
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})
})
