package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/gekko3d/swarm"
	"github.com/gekko3d/swarm/platform"
	"github.com/gekko3d/swarm/rt/raster"
)

type options struct {
	configPath string
	count      int
	seed       uint64
	debug      bool
	headless   bool
	frames     uint64
	preview    string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("swarm", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "swarm.toml", "config file (.toml, .yaml or .yml)")
	fs.IntVar(&opts.count, "count", -1, "initial instance count (overrides config)")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed (overrides config)")
	fs.BoolVar(&opts.debug, "debug", false, "debug logging")
	fs.BoolVar(&opts.headless, "headless", false, "run the scripted demo without a window")
	fs.Uint64Var(&opts.frames, "frames", 0, "stop after this many frames")
	fs.StringVar(&opts.preview, "preview", "", "headless only: write a PNG of the last frame")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func (o options) apply(cfg *swarm.Config) {
	if o.count >= 0 {
		cfg.Instances.Initial = o.count
	}
	if o.seed != 0 {
		cfg.Instances.Seed = o.seed
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	cfg, err := swarm.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.headless {
		err = runHeadless(cfg, opts)
	} else {
		runWindowed(cfg, opts)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func baseModules(cfg swarm.Config) []swarm.Module {
	return []swarm.Module{
		swarm.LoggingModule{Prefix: cfg.Log.Prefix, Level: cfg.Log.Level},
		swarm.TimeModule{},
		swarm.InputModule{},
		swarm.CameraModule{Config: cfg.Camera, Width: cfg.Window.Width, Height: cfg.Window.Height},
		swarm.OrbitCameraModule{},
	}
}

func runHeadless(cfg swarm.Config, opts options) error {
	app := swarm.NewAppBuilder().
		UseModule(baseModules(cfg)...).
		UseModule(
			swarm.InstanceEditorModule{Config: cfg.Instances, Factory: raster.Factory()},
			ScriptModule{Steps: demoScript()},
		).
		WithMaxFrames(opts.frames).
		Build()
	app.Run()

	editor, _ := swarm.Resource[swarm.InstanceEditor](app)
	app.Logger().Infof("final: %d instances, %d selected", editor.Count(), editor.SelectedCount())

	if opts.preview == "" {
		return nil
	}
	camera, _ := swarm.Resource[swarm.Camera](app)
	return writePreview(opts.preview, editor, camera)
}

func writePreview(path string, editor *swarm.InstanceEditor, camera *swarm.Camera) error {
	canvas := raster.NewCanvas(camera.Width, camera.Height)
	mesh, _ := editor.Syncer().Mesh().(*raster.Mesh)
	img := canvas.Render(mesh, camera.ViewProjection())

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

func runWindowed(cfg swarm.Config, opts options) {
	app := swarm.NewApp()
	app.MaxFrames = opts.frames
	app.UseModules(baseModules(cfg)...)
	app.UseModules(
		platform.WindowModule{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: cfg.Window.Title},
		platform.GPUModule{},
	)
	g, _ := swarm.Resource[platform.GPU](app)
	app.UseModules(swarm.InstanceEditorModule{Config: cfg.Instances, Factory: g.Factory()})

	w, _ := swarm.Resource[platform.Window](app)
	defer w.Destroy()
	defer g.Release()

	app.Run()
}
