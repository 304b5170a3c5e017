package login_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/billed/internal/core/datamodel/session"
	"github.com/frahmantamala/billed/internal/login"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/internal/workflow"
)

var _ = Describe("Login steps", func() {
	It("should read only the fields of the role", func() {
		form := ui.Values{
			login.FieldEmployeeEmail: "employee@billed.tld",
			login.FieldAdminEmail:    "admin@billed.tld",
		}

		Expect(login.ReadCredentials(session.RoleEmployee, form).Email).To(Equal("employee@billed.tld"))
		Expect(login.ReadCredentials(session.RoleAdmin, form).Email).To(Equal("admin@billed.tld"))
	})

	It("should write the token before the session and navigate last", func() {
		creds := session.Credentials{Email: "a@a", Password: "p"}

		next, effects, err := login.OnSuccess(routes.Context{}, session.RoleEmployee, creds, "1234")

		Expect(err).NotTo(HaveOccurred())
		Expect(next.PreviousLocation).To(Equal(routes.Bills))
		Expect(workflow.Kinds(effects)).To(Equal([]workflow.Kind{
			workflow.KindStorageWrite,
			workflow.KindStorageWrite,
			workflow.KindSetError,
			workflow.KindNavigate,
		}))
		Expect(effects[0]).To(Equal(workflow.StorageWrite(session.StorageKeyToken, "1234")))
		Expect(effects[1].Key).To(Equal(session.StorageKeyUser))
		Expect(effects[1].Value).To(MatchJSON(`{"type":"Employee","email":"a@a","password":"p","status":"connected"}`))
	})

	It("should not store anything on failure", func() {
		effects := login.OnFailure(errors.New("Login failed"))

		_, stored := workflow.Find(effects, workflow.KindStorageWrite)
		Expect(stored).To(BeFalse())
		_, moved := workflow.Find(effects, workflow.KindNavigate)
		Expect(moved).To(BeFalse())

		slot, ok := workflow.Find(effects, workflow.KindSetError)
		Expect(ok).To(BeTrue())
		Expect(slot.Message).To(Equal("Login failed"))
	})

	It("should only show the missing fields message when invalid", func() {
		Expect(login.OnInvalid()).To(Equal([]workflow.Effect{workflow.SetError(login.MsgMissingFields)}))
		Expect(login.Validate(session.Credentials{Email: "a@a"})).To(MatchError(login.ErrMissingFields))
		Expect(login.Validate(session.Credentials{Email: "a@a", Password: "p"})).To(Succeed())
	})
})
