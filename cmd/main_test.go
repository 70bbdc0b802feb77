package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		convey.Convey("When invoked with too many arguments", func() {
			err := rootCmd.Args(rootCmd, []string{"a.toml", "b.toml"})

			convey.Convey("Then argument validation rejects them", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When invoked with zero or one argument", func() {
			convey.So(rootCmd.Args(rootCmd, nil), convey.ShouldBeNil)
			convey.So(rootCmd.Args(rootCmd, []string{"a.toml"}), convey.ShouldBeNil)
		})

		convey.Convey("When the config file does not exist", func() {
			rootCmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.toml")})
			err := rootCmd.ExecuteContext(context.Background())

			convey.Convey("Then startup is fatal", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
			})
		})
	})
}
