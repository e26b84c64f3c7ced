package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/swarm"
)

func TestParseFlags_OverridesConfig(t *testing.T) {
	opts, err := parseFlags([]string{"-count", "12", "-seed", "9", "-debug", "-headless", "-frames", "5"})
	require.NoError(t, err)
	assert.True(t, opts.headless)
	assert.Equal(t, uint64(5), opts.frames)

	cfg := swarm.DefaultConfig()
	opts.apply(&cfg)
	assert.Equal(t, 12, cfg.Instances.Initial)
	assert.Equal(t, uint64(9), cfg.Instances.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseFlags_DefaultsLeaveConfigAlone(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)

	cfg := swarm.DefaultConfig()
	opts.apply(&cfg)
	assert.Equal(t, swarm.DefaultConfig(), cfg)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, err := parseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestRunHeadless_WritesPreview(t *testing.T) {
	cfg := swarm.DefaultConfig()
	cfg.Log.Level = "none"
	cfg.Instances.Initial = 40
	cfg.Instances.AddBatch = 5
	cfg.Window.Width, cfg.Window.Height = 160, 120

	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, runHeadless(cfg, options{preview: path}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestScript_PlaysThroughAndExits(t *testing.T) {
	cfg := swarm.DefaultConfig()
	cfg.Log.Level = "none"
	cfg.Instances.Initial = 10
	cfg.Instances.AddBatch = 5

	steps := demoScript()
	app := swarm.NewAppBuilder().
		UseModule(baseModules(cfg)...).
		UseModule(
			swarm.InstanceEditorModule{Config: cfg.Instances},
			ScriptModule{Steps: steps},
		).
		Build()
	app.Run()

	assert.Equal(t, uint64(len(steps)+1), app.Frame())

	editor, ok := swarm.Resource[swarm.InstanceEditor](app)
	require.True(t, ok)
	// 10 + 5 added, then instances 0 and 1 deleted
	assert.Equal(t, 13, editor.Count())
	assert.Nil(t, editor.Edit())
	assert.Equal(t, [3]float32{1, 1, 1}, [3]float32(editor.Snapshot().Color(0)))
}

func TestScriptModule_StepsRunAfterPrelude(t *testing.T) {
	cfg := swarm.DefaultConfig()
	cfg.Log.Level = "none"
	cfg.Instances.Initial = 3

	var seen []uint64
	step := func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
		seen = append(seen, uint64(input.MouseX))
	}

	app := swarm.NewApp()
	app.UseModules(baseModules(cfg)...)
	app.UseModules(
		swarm.InstanceEditorModule{Config: cfg.Instances},
		ScriptModule{Steps: []scriptStep{step, step}},
	)
	// registered after the script, yet it must run before it every frame
	app.UseSystem(
		swarm.System(func(input *swarm.Input, tm *swarm.Time) {
			input.MouseX = float64(tm.Frame)
		}).InStage(swarm.Prelude),
	)
	app.Run()

	assert.Equal(t, []uint64{1, 2}, seen)
}
