package authz

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
	"github.com/frahmantamala/identity-access/pkg/logger"
)

// countingStore wraps the mock store to observe read-through behavior.
type countingStore struct {
	*mockPermissionStore
	getCalls int
}

func (c *countingStore) GetPermissions(ctx context.Context, roleID, optionID int64) (*accessModel.RolePermission, error) {
	c.getCalls++
	return c.mockPermissionStore.GetPermissions(ctx, roleID, optionID)
}

var _ = ginkgo.Describe("Cached Permission Store", func() {
	var (
		mr     *miniredis.Miniredis
		client *redis.Client
		store  *countingStore
		cached *CachedPermissionStore
		ctx    context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		mr, err = miniredis.Run()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store = &countingStore{mockPermissionStore: newMockPermissionStore()}
		cached = NewCachedPermissionStore(store, client, time.Minute, logger.LoggerWrapper())
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		client.Close()
		mr.Close()
	})

	ginkgo.It("serves repeated lookups from the cache", func() {
		store.addGrant(accessModel.RolePermission{RoleID: 7, OptionID: OptionUsers, CanPrint: true})

		for i := 0; i < 3; i++ {
			grant, err := cached.GetPermissions(ctx, 7, OptionUsers)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(grant).NotTo(gomega.BeNil())
			gomega.Expect(grant.CanPrint).To(gomega.BeTrue())
		}

		gomega.Expect(store.getCalls).To(gomega.Equal(1))
	})

	ginkgo.It("caches the absence of a grant", func() {
		for i := 0; i < 3; i++ {
			grant, err := cached.GetPermissions(ctx, 7, OptionUsers)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(grant).To(gomega.BeNil())
		}

		gomega.Expect(store.getCalls).To(gomega.Equal(1))
	})

	ginkgo.It("invalidates the cached entry on upsert", func() {
		_, err := cached.GetPermissions(ctx, 7, OptionUsers)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		grant := accessModel.RolePermission{RoleID: 7, OptionID: OptionUsers, CanCreate: true}
		gomega.Expect(cached.UpsertGrant(ctx, grant)).To(gomega.Succeed())

		got, err := cached.GetPermissions(ctx, 7, OptionUsers)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(got).NotTo(gomega.BeNil())
		gomega.Expect(got.CanCreate).To(gomega.BeTrue())
	})

	ginkgo.It("expires entries after the TTL", func() {
		store.addGrant(accessModel.RolePermission{RoleID: 7, OptionID: OptionUsers, CanCreate: true})

		_, err := cached.GetPermissions(ctx, 7, OptionUsers)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		mr.FastForward(2 * time.Minute)

		_, err = cached.GetPermissions(ctx, 7, OptionUsers)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(store.getCalls).To(gomega.Equal(2))
	})

	ginkgo.It("falls back to the store when redis is unavailable", func() {
		store.addGrant(accessModel.RolePermission{RoleID: 7, OptionID: OptionUsers, CanUpdate: true})
		mr.Close()

		grant, err := cached.GetPermissions(ctx, 7, OptionUsers)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(grant).NotTo(gomega.BeNil())
		gomega.Expect(grant.CanUpdate).To(gomega.BeTrue())
	})
})
