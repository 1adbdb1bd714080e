package config_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tauraamui/dragoneye/pkg/config"
	"github.com/tauraamui/dragoneye/pkg/configdef"
)

var _ = Describe("Config", func() {
	var (
		dir         string
		path        string
		existingEnv string
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "dragoneye-config")
		Expect(err).To(BeNil())
		path = filepath.Join(dir, "nested", "config.json")

		existingEnv = os.Getenv(config.EnvKey)
		Expect(os.Setenv(config.EnvKey, path)).To(Succeed())
	})

	AfterEach(func() {
		os.Setenv(config.EnvKey, existingEnv)
		os.RemoveAll(dir)
	})

	Describe("Resolving config", func() {
		Context("From a config file at the env path", func() {
			It("Should load values over the defaults", func() {
				Expect(os.MkdirAll(filepath.Dir(path), os.ModePerm)).To(Succeed())
				Expect(os.WriteFile(path, []byte(`{"transform": "invert", "period_ms": 250}`), 0666)).To(Succeed())

				values, err := config.DefaultResolver().Resolve()
				Expect(err).To(BeNil())
				Expect(values.Transform).To(Equal("invert"))
				Expect(values.PeriodMS).To(Equal(250))
				Expect(values.Format).To(Equal("pgm"))
			})
		})

		Context("From a missing config file", func() {
			It("Should fall back to valid defaults", func() {
				values, err := config.DefaultResolver().Resolve()
				Expect(err).To(BeNil())
				Expect(values.FileBaseName).To(Equal("frame"))
				Expect(values.RunValidate()).To(Succeed())
			})
		})
	})

	Describe("Creating config", func() {
		It("Should write the defaults to the env path", func() {
			Expect(config.DefaultCreator().Create()).To(Succeed())
			_, err := os.Stat(path)
			Expect(err).To(BeNil())
		})

		It("Should refuse to overwrite an existing config", func() {
			Expect(config.DefaultCreator().Create()).To(Succeed())
			err := config.DefaultCreator().Create()
			Expect(errors.Is(err, configdef.ErrConfigAlreadyExists)).To(BeTrue())
		})
	})
})
