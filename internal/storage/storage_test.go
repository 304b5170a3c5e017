package storage_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/billed/internal/core/datamodel/session"
	"github.com/frahmantamala/billed/internal/storage"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("Memory", func() {
	var (
		ctx context.Context
		mem *storage.Memory
	)

	BeforeEach(func() {
		ctx = context.Background()
		mem = storage.NewMemory()
	})

	It("should report missing keys", func() {
		_, ok, err := mem.GetItem(ctx, "user")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should keep the last write", func() {
		Expect(mem.SetItem(ctx, "jwt", "1")).To(Succeed())
		Expect(mem.SetItem(ctx, "jwt", "2")).To(Succeed())

		value, ok, err := mem.GetItem(ctx, "jwt")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal("2"))
		Expect(mem.Len()).To(Equal(1))
	})
})

var _ = Describe("LoadSession", func() {
	var (
		ctx context.Context
		mem *storage.Memory
	)

	BeforeEach(func() {
		ctx = context.Background()
		mem = storage.NewMemory()
	})

	It("should return ErrNoSession when nobody logged in", func() {
		_, _, err := storage.LoadSession(ctx, mem)
		Expect(err).To(MatchError(storage.ErrNoSession))
	})

	It("should decode the stored session and token", func() {
		Expect(mem.SetItem(ctx, session.StorageKeyUser, `{"type":"Admin","email":"a@a","password":"p","status":"connected"}`)).To(Succeed())
		Expect(mem.SetItem(ctx, session.StorageKeyToken, "1234")).To(Succeed())

		sess, token, err := storage.LoadSession(ctx, mem)

		Expect(err).NotTo(HaveOccurred())
		Expect(sess).To(Equal(session.Session{Type: session.RoleAdmin, Email: "a@a", Password: "p", Status: session.StatusConnected}))
		Expect(token).To(Equal("1234"))
	})

	It("should fail on a corrupted session", func() {
		Expect(mem.SetItem(ctx, session.StorageKeyUser, "{not json")).To(Succeed())

		_, _, err := storage.LoadSession(ctx, mem)

		Expect(err).To(MatchError(ContainSubstring("failed to decode session")))
	})

	It("should read the token alone", func() {
		token, err := storage.Token(ctx, mem)
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(BeEmpty())

		Expect(mem.SetItem(ctx, session.StorageKeyToken, "abc")).To(Succeed())
		token, err = storage.Token(ctx, mem)
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("abc"))
	})
})
