package newbill_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/core/datamodel/bill"
	"github.com/frahmantamala/billed/internal/core/datamodel/session"
	"github.com/frahmantamala/billed/internal/core/events"
	"github.com/frahmantamala/billed/internal/newbill"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/storage"
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
	mu        sync.Mutex
	upload    bill.Upload
	createErr error
	updateErr error
	forms     []store.FileForm
	contents  []string
	updates   []store.UpdateRequest
}

func (m *mockBills) List(context.Context) ([]bill.Record, error) { return nil, nil }

func (m *mockBills) Create(_ context.Context, form store.FileForm) (bill.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms = append(m.forms, form)
	if form.File != nil {
		b, _ := io.ReadAll(form.File)
		m.contents = append(m.contents, string(b))
	}
	if m.createErr != nil {
		return bill.Upload{}, m.createErr
	}
	return m.upload, nil
}

func (m *mockBills) Update(_ context.Context, req store.UpdateRequest) (bill.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, req)
	if m.updateErr != nil {
		return bill.Record{}, m.updateErr
	}
	return bill.Record{ID: req.Selector}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type recordingAlerter struct {
	messages []string
}

func (r *recordingAlerter) Alert(message string) {
	r.messages = append(r.messages, message)
}

var _ = Describe("NewBill Service", func() {
	var (
		ctx       context.Context
		bills     *mockBills
		mem       *storage.Memory
		alerter   *recordingAlerter
		input     *ui.PathInput
		navigated []routes.Path
		published *recordingPublisher
		service   *newbill.Service
		form      ui.Values
	)

	BeforeEach(func() {
		ctx = context.Background()
		bills = &mockBills{upload: bill.Upload{FileURL: "https://test.com/image.jpg", Key: "1234"}}
		mem = storage.NewMemory()
		Expect(mem.SetItem(ctx, session.StorageKeyUser, `{"type":"Employee","email":"employee@test.tld","password":"x","status":"connected"}`)).To(Succeed())
		alerter = &recordingAlerter{}
		input = &ui.PathInput{}
		navigated = nil
		published = &recordingPublisher{}
		service = newbill.NewService(newbill.Deps{
			Store:   &mockStore{bills: bills},
			Storage: mem,
			Navigator: routes.NavigatorFunc(func(p routes.Path) {
				navigated = append(navigated, p)
			}),
			Alerter:   alerter,
			FileInput: input,
			Events:    published,
			Logger:    logger.Discard(),
		})
		form = ui.Values{
			newbill.FieldType:   "Transports",
			newbill.FieldName:   "Vol",
			newbill.FieldDate:   "2023-04-04",
			newbill.FieldAmount: "348",
		}
	})

	Describe("HandleFileSelected", func() {
		It("should upload a valid file with the user's email", func() {
			input.Path = "/tmp/image.jpg"

			err := service.HandleFileSelected(ctx, newbill.File{Name: "image.jpg", Content: strings.NewReader("image")})

			Expect(err).NotTo(HaveOccurred())
			Expect(bills.forms).To(HaveLen(1))
			Expect(bills.forms[0].FileName).To(Equal("image.jpg"))
			Expect(bills.forms[0].Fields).To(HaveKeyWithValue("email", "employee@test.tld"))
			Expect(bills.contents).To(Equal([]string{"image"}))

			draft := service.Draft()
			Expect(draft.State).To(Equal(newbill.StateFileValidated))
			Expect(draft.FileName).To(Equal("image.jpg"))
			Expect(draft.FileURL).To(Equal("https://test.com/image.jpg"))
			Expect(draft.BillID).To(Equal("1234"))
			Expect(input.Path).To(Equal("/tmp/image.jpg"))
			Expect(alerter.messages).To(BeEmpty())
		})

		It("should reject an invalid format without calling the store", func() {
			input.Path = "/tmp/document.pdf"

			err := service.HandleFileSelected(ctx, newbill.File{Name: "document.pdf", Content: strings.NewReader("document")})

			Expect(err).To(MatchError(newbill.ErrInvalidFormat))
			Expect(bills.forms).To(BeEmpty())
			Expect(alerter.messages).To(Equal([]string{"Veuillez sélectionner un fichier au format .jpg, .jpeg ou .png."}))
			Expect(input.Path).To(BeEmpty())
			Expect(service.Draft()).To(Equal(newbill.Draft{}))
		})

		DescribeTable("should only log store failures",
			func(message string) {
				bills.createErr = errors.New(message)

				err := service.HandleFileSelected(ctx, newbill.File{Name: "image.jpg", Content: strings.NewReader("image")})

				Expect(err).To(MatchError(ContainSubstring(message)))
				Expect(alerter.messages).To(BeEmpty())
				Expect(service.Draft().State).To(Equal(newbill.StateEmpty))
				Expect(service.Draft().FileURL).To(BeEmpty())
			},
			Entry("404", "Erreur 404"),
			Entry("500", "Erreur 500"),
		)

		It("should upload with an empty email when nobody is logged in", func() {
			service = newbill.NewService(newbill.Deps{
				Store:   &mockStore{bills: bills},
				Storage: storage.NewMemory(),
				Logger:  logger.Discard(),
			})

			err := service.HandleFileSelected(ctx, newbill.File{Name: "image.png"})

			Expect(err).NotTo(HaveOccurred())
			Expect(bills.forms[0].Fields).To(HaveKeyWithValue("email", ""))
		})
	})

	Describe("HandleSubmit", func() {
		It("should alert and stay put without a validated file", func() {
			err := service.HandleSubmit(ctx, form)

			Expect(err).To(MatchError(newbill.ErrMissingReceipt))
			Expect(alerter.messages).To(Equal([]string{"Veuillez téléverser un justificatif valide (.jpg, .jpeg, .png) avant de soumettre."}))
			Expect(bills.updates).To(BeEmpty())
			Expect(navigated).To(BeEmpty())
		})

		It("should alert after a failed upload", func() {
			bills.createErr = errors.New("Erreur 500")
			_ = service.HandleFileSelected(ctx, newbill.File{Name: "image.jpg"})

			err := service.HandleSubmit(ctx, form)

			Expect(err).To(MatchError(newbill.ErrMissingReceipt))
			Expect(bills.updates).To(BeEmpty())
			Expect(navigated).To(BeEmpty())
		})

		It("should update the uploaded bill and return to the list", func() {
			Expect(service.HandleFileSelected(ctx, newbill.File{Name: "image.jpg"})).To(Succeed())

			err := service.HandleSubmit(ctx, form)

			Expect(err).NotTo(HaveOccurred())
			Expect(bills.updates).To(HaveLen(1))
			Expect(bills.updates[0].Selector).To(Equal("1234"))
			Expect(bills.updates[0].Data).To(MatchJSON(`{
				"email": "employee@test.tld",
				"type": "Transports",
				"name": "Vol",
				"amount": 348,
				"date": "2023-04-04",
				"pct": 20,
				"fileUrl": "https://test.com/image.jpg",
				"fileName": "image.jpg",
				"status": "pending"
			}`))
			Expect(navigated).To(Equal([]routes.Path{routes.Bills}))
			Expect(service.Draft().State).To(Equal(newbill.StateSubmitted))

			Expect(published.events).To(HaveLen(2))
			Expect(published.events[0].EventType()).To(Equal(events.EventTypeReceiptUploaded))
			submitted, ok := published.events[1].(*events.BillSubmittedEvent)
			Expect(ok).To(BeTrue())
			Expect(submitted.BillID).To(Equal("1234"))
			Expect(submitted.Email).To(Equal("employee@test.tld"))
		})

		It("should ignore files picked after the bill was submitted", func() {
			Expect(service.HandleFileSelected(ctx, newbill.File{Name: "image.jpg"})).To(Succeed())
			Expect(service.HandleSubmit(ctx, form)).To(Succeed())

			err := service.HandleFileSelected(ctx, newbill.File{Name: "other.png"})

			Expect(err).NotTo(HaveOccurred())
			Expect(bills.forms).To(HaveLen(1))
			Expect(service.Draft().State).To(Equal(newbill.StateSubmitted))
		})

		It("should not navigate when the update fails", func() {
			Expect(service.HandleFileSelected(ctx, newbill.File{Name: "image.jpg"})).To(Succeed())
			bills.updateErr = internal.NewRemoteError("Erreur 500", 500, nil)

			err := service.HandleSubmit(ctx, form)

			Expect(internal.IsRemote(err)).To(BeTrue())
			Expect(navigated).To(BeEmpty())
			Expect(service.Draft().State).To(Equal(newbill.StateFileValidated))

			bills.updateErr = nil
			Expect(service.HandleSubmit(ctx, form)).To(Succeed())
			Expect(navigated).To(Equal([]routes.Path{routes.Bills}))
		})

		It("should wait for a pending upload before submitting", func() {
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(service.HandleFileSelected(ctx, newbill.File{Name: "image.jpg"})).To(Succeed())
			}()
			wg.Wait()

			Expect(service.HandleSubmit(ctx, form)).To(Succeed())
			Expect(bills.updates).To(HaveLen(1))
		})
	})
})
