package bills_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/bills"
	"github.com/frahmantamala/billed/internal/core/datamodel/bill"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/store"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/pkg/logger"
)

// Mock store for testing
type mockStore struct {
	bills *mockBills
}

func (m *mockStore) Login(context.Context, []byte) (store.LoginResult, error) {
	return store.LoginResult{}, errors.New("not used")
}

func (m *mockStore) Users() store.Users { return nil }

func (m *mockStore) Bills() store.Bills { return m.bills }

type mockBills struct {
	records   []bill.Record
	listErr   error
	listCalls int
}

func (m *mockBills) List(context.Context) ([]bill.Record, error) {
	m.listCalls++
	return m.records, m.listErr
}

func (m *mockBills) Create(context.Context, store.FileForm) (bill.Upload, error) {
	return bill.Upload{}, errors.New("not used")
}

func (m *mockBills) Update(context.Context, store.UpdateRequest) (bill.Record, error) {
	return bill.Record{}, errors.New("not used")
}

type mockModal struct {
	width int
	src   string
	size  int
	shown int
}

func (m *mockModal) Width() int { return m.width }

func (m *mockModal) SetImage(src string, width int) {
	m.src = src
	m.size = width
}

func (m *mockModal) Show() { m.shown++ }

var _ = Describe("Bills Service", func() {
	var (
		ctx       context.Context
		mock      *mockStore
		modal     *mockModal
		navigated []routes.Path
		service   *bills.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = &mockStore{bills: &mockBills{records: []bill.Record{
			{Date: "2023-05-10", Status: bill.StatusPending},
			{Date: "2023-04-10", Status: bill.StatusAccepted},
		}}}
		modal = &mockModal{width: 801}
		navigated = nil
		service = bills.NewService(bills.Deps{
			Store: mock,
			Modal: modal,
			Navigator: routes.NavigatorFunc(func(p routes.Path) {
				navigated = append(navigated, p)
			}),
			Logger: logger.Discard(),
		})
	})

	Describe("FetchAndFormat", func() {
		It("should return formatted bills in store order", func() {
			list, err := service.FetchAndFormat(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(mock.bills.listCalls).To(Equal(1))
			Expect(list).To(HaveLen(2))
			Expect(list[0].Date).To(Equal("10 Mai. 23"))
			Expect(list[0].Status).To(Equal("En attente"))
			Expect(list[1].Date).To(Equal("10 Avr. 23"))
			Expect(list[1].Status).To(Equal("Accepté"))
		})

		It("should apply the configured order", func() {
			service = bills.NewService(bills.Deps{
				Store:  mock,
				Order:  bills.OrderDateAscending,
				Logger: logger.Discard(),
			})

			list, err := service.FetchAndFormat(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(list[0].Date).To(Equal("10 Avr. 23"))
			Expect(list[1].Date).To(Equal("10 Mai. 23"))
		})

		It("should propagate store failures as remote errors", func() {
			mock.bills.listErr = errors.New("Erreur 500")

			list, err := service.FetchAndFormat(ctx)

			Expect(list).To(BeNil())
			Expect(internal.IsRemote(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Erreur 500"))
		})

		It("should leave reporting the failure to the caller", func() {
			logs := &bytes.Buffer{}
			service = bills.NewService(bills.Deps{
				Store:  mock,
				Logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelInfo})),
			})
			mock.bills.listErr = errors.New("Erreur 500")

			_, err := service.FetchAndFormat(ctx)

			Expect(err).To(HaveOccurred())
			Expect(logs.String()).To(BeEmpty())
		})

		It("should keep remote errors as they are", func() {
			remote := internal.NewRemoteError("Erreur 404", 404, nil)
			mock.bills.listErr = remote

			_, err := service.FetchAndFormat(ctx)

			Expect(err).To(BeIdenticalTo(remote))
		})

		It("should fail without a store", func() {
			service = bills.NewService(bills.Deps{Logger: logger.Discard()})

			_, err := service.FetchAndFormat(ctx)

			Expect(err).To(MatchError(internal.ErrStoreUnavailable))
		})
	})

	Describe("PreviewReceipt", func() {
		It("should show the receipt at half the modal width", func() {
			service.PreviewReceipt(ctx, ui.Attributes{bills.AttrBillURL: "https://test.com/bill.jpg"})

			Expect(modal.src).To(Equal("https://test.com/bill.jpg"))
			Expect(modal.size).To(Equal(400))
			Expect(modal.shown).To(Equal(1))
			Expect(mock.bills.listCalls).To(BeZero())
		})

		It("should still open the modal without a URL", func() {
			service.PreviewReceipt(ctx, ui.Attributes{})

			Expect(modal.src).To(BeEmpty())
			Expect(modal.shown).To(Equal(1))
		})
	})

	Describe("NewBill", func() {
		It("should navigate to the new bill page", func() {
			service.NewBill(ctx)
			Expect(navigated).To(Equal([]routes.Path{routes.NewBill}))
		})
	})
})
