package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/billed/internal"
)

var _ = Describe("AppError", func() {
	It("should match sentinels through wrapping", func() {
		err := fmt.Errorf("login: %w", internal.ErrStoreUnavailable)

		Expect(errors.Is(err, internal.ErrStoreUnavailable)).To(BeTrue())
		Expect(internal.IsRemote(err)).To(BeTrue())
		Expect(internal.IsValidation(err)).To(BeFalse())
	})

	It("should not match a different code", func() {
		err := internal.NewRemoteError("Erreur 500", 500, nil)
		Expect(errors.Is(err, internal.ErrStoreUnavailable)).To(BeFalse())
	})

	It("should expose the cause", func() {
		cause := errors.New("connection refused")
		err := internal.NewRemoteError("Erreur de connexion", 0, cause)

		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(Equal("Erreur de connexion: connection refused"))
	})

	It("should report the first field error as its message", func() {
		err := internal.NewValidationFieldError("email", "email is required", internal.ErrCodeMissingCredentials)

		Expect(err.Error()).To(Equal("email is required"))
		Expect(err.GetDetailedMessage()).To(Equal("email is required"))
	})

	It("should hide the status and cause from JSON", func() {
		err := internal.NewRemoteError("Erreur 404", 404, errors.New("boom"))

		data, marshalErr := json.Marshal(err)

		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(data).To(MatchJSON(`{"type":"REMOTE_ERROR","code":"STORE_REQUEST_FAILED","message":"Erreur 404"}`))
	})

	DescribeTable("UserMessage",
		func(err error, expected string) {
			Expect(internal.UserMessage(err, "fallback")).To(Equal(expected))
		},
		Entry("nil", nil, "fallback"),
		Entry("plain error", errors.New("Login failed"), "Login failed"),
		Entry("empty plain error", errors.New(""), "fallback"),
		Entry("remote error without the cause", internal.NewRemoteError("Erreur de connexion", 0, errors.New("dial tcp")), "Erreur de connexion"),
		Entry("app error without message", &internal.AppError{Type: internal.ErrorTypeRemote}, "fallback"),
		Entry("internal error", internal.NewInternalError("failed to store session", errors.New("disk full")), "fallback"),
	)
})
