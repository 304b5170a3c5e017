package internal_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/billed/internal"
)

var _ = Describe("Config", func() {
	It("should accept the defaults", func() {
		Expect(internal.DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("should reject invalid settings",
		func(mutate func(*internal.Config), message string) {
			cfg := internal.DefaultConfig()
			mutate(cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(message)))
		},
		Entry("missing base url", func(c *internal.Config) { c.Store.BaseURL = "" }, "base_url is required"),
		Entry("wrong scheme", func(c *internal.Config) { c.Store.BaseURL = "ftp://store" }, "http or https"),
		Entry("negative timeout", func(c *internal.Config) { c.Store.Timeout = -time.Second }, "timeout cannot be negative"),
		Entry("unknown driver", func(c *internal.Config) { c.Storage.Driver = "oracle" }, "unsupported driver"),
		Entry("sqlite without source", func(c *internal.Config) { c.Storage.Source = "" }, "source is required"),
		Entry("bad level", func(c *internal.Config) { c.Logging.Level = "trace" }, "invalid level"),
		Entry("bad format", func(c *internal.Config) { c.Logging.Format = "xml" }, "invalid format"),
	)

	It("should not need a source for the memory driver", func() {
		cfg := internal.DefaultConfig()
		cfg.Storage = internal.StorageConfig{Driver: internal.StorageDriverMemory}
		Expect(cfg.Validate()).To(Succeed())
	})

	Describe("LoadConfigFromEnv", func() {
		BeforeEach(func() {
			os.Setenv("BILLED_STORE_BASE_URL", "https://api.billed.tld")
			os.Setenv("BILLED_STORE_TIMEOUT", "3s")
			os.Setenv("BILLED_STORAGE_DRIVER", "memory")
			os.Setenv("BILLED_STORAGE_MAX_OPEN_CONNS", "not-a-number")
		})

		AfterEach(func() {
			os.Unsetenv("BILLED_STORE_BASE_URL")
			os.Unsetenv("BILLED_STORE_TIMEOUT")
			os.Unsetenv("BILLED_STORAGE_DRIVER")
			os.Unsetenv("BILLED_STORAGE_MAX_OPEN_CONNS")
		})

		It("should read BILLED_ variables and keep defaults otherwise", func() {
			cfg := internal.LoadConfigFromEnv()

			Expect(cfg.Store.BaseURL).To(Equal("https://api.billed.tld"))
			Expect(cfg.Store.Timeout).To(Equal(3 * time.Second))
			Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverMemory))
			Expect(cfg.Storage.MaxOpenConns).To(Equal(1))
			Expect(cfg.Logging.Format).To(Equal("json"))
			Expect(cfg.Validate()).To(Succeed())
		})
	})
})
