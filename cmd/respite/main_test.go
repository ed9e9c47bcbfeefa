package main

import (
	"testing"

	"github.com/poiesic/respite/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetup(t *testing.T) {
	newApp := func(action cli.ActionFunc) *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setup,
			Action: action,
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				app := newApp(func(c *cli.Context) error { return nil })
				err := app.Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				app := newApp(func(c *cli.Context) error { return nil })
				err := app.Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := newApp(func(c *cli.Context) error { return nil })
		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp(func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		})
		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestProfileFromFlags(t *testing.T) {
	run := func(t *testing.T, args []string) *core.UserProfile {
		t.Helper()
		var got *core.UserProfile
		app := &cli.App{
			Name: "test",
			Commands: []*cli.Command{
				{
					Name:  "probe",
					Flags: profileFlags(),
					Action: func(c *cli.Context) error {
						got = profileFromFlags(c)
						return nil
					},
				},
			},
		}
		require.NoError(t, app.Run(append([]string{"test", "probe"}, args...)))
		require.NotNil(t, got)
		return got
	}

	t.Run("full profile", func(t *testing.T) {
		p := run(t, []string{
			"--name", "dana",
			"--age", "34",
			"--gender", "female",
			"--occupation", "information-technology",
			"--keywords", "insomnia, deadlines",
			"--anxious",
			"--work-stress",
		})

		assert.Equal(t, "dana", p.Nickname)
		assert.Equal(t, 34, p.Age)
		assert.Equal(t, "female", p.Gender)
		assert.Equal(t, "information-technology", p.Occupation)
		assert.Equal(t, []string{"insomnia", "deadlines"}, p.Keywords)
		assert.Equal(t, core.StressAnxiousOccupational, p.Stress)
	})

	t.Run("no screening flags means calm", func(t *testing.T) {
		p := run(t, nil)
		assert.Equal(t, core.StressCalm, p.Stress)
		assert.Empty(t, p.Keywords)
	})

	t.Run("all screening flags mean crisis", func(t *testing.T) {
		p := run(t, []string{"--depressed", "--anxious", "--work-stress"})
		assert.Equal(t, core.StressCrisis, p.Stress)
	})

	t.Run("blank keywords are dropped", func(t *testing.T) {
		p := run(t, []string{"--keywords", " , insomnia ,, "})
		assert.Equal(t, []string{"insomnia"}, p.Keywords)
	})
}

func TestReembedFlagDefaults(t *testing.T) {
	app := &cli.App{
		Name: "respite",
		Commands: []*cli.Command{
			{
				Name:   "reembed",
				Action: reembedCommand,
				Flags: append(storageFlags(),
					&cli.IntFlag{Name: "batch-size", Value: 100},
					&cli.IntFlag{Name: "report-interval", Value: 100},
					&cli.IntFlag{Name: "max-retries", Value: 3},
				),
			},
		},
	}

	cmd := app.Commands[0]
	findInt := func(name string) *cli.IntFlag {
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
				return f
			}
		}
		return nil
	}

	t.Run("batch-size has default value of 100", func(t *testing.T) {
		f := findInt("batch-size")
		require.NotNil(t, f)
		assert.Equal(t, 100, f.Value)
	})

	t.Run("report-interval has default value of 100", func(t *testing.T) {
		f := findInt("report-interval")
		require.NotNil(t, f)
		assert.Equal(t, 100, f.Value)
	})

	t.Run("max-retries has default value of 3", func(t *testing.T) {
		f := findInt("max-retries")
		require.NotNil(t, f)
		assert.Equal(t, 3, f.Value)
	})
}
