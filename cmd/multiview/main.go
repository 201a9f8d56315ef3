// Command multiview renders the multiview demo page to PNG frames.
//
// Every panel of the layout document becomes a view with its own scene,
// resolution policy and effect chain. All views share one software device
// and are composited onto one surface per frame. A simulated pointer
// sweeps across the page and tints the panel under it.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/multiview"
	"github.com/gogpu/multiview/internal/demo"
	"github.com/gogpu/multiview/layout"
	"github.com/gogpu/multiview/render"
)

//go:embed layout.yaml
var defaultLayout []byte

func main() {
	var (
		layoutPath = flag.String("layout", "", "layout document (default: built-in five panels)")
		output     = flag.String("output", "frames", "output directory")
		frames     = flag.Int("frames", 60, "number of frames")
		fps        = flag.Float64("fps", 30, "frames per second of the simulated clock")
		dpr        = flag.Float64("dpr", 0, "device pixel ratio (0: from the layout document)")
		regress    = flag.Int("regress", 0, "report a performance regression every n frames (0: never)")
		watch      = flag.Bool("watch", false, "reload the layout document when it changes")
		linear     = flag.Bool("linear", false, "write linear colour instead of sRGB")
		verbose    = flag.Bool("v", false, "log debug output")
		list       = flag.Bool("list", false, "list the scene names a layout may use and exit")
	)
	flag.Parse()

	if *list {
		for _, name := range demo.Scenes() {
			fmt.Println(name)
		}
		return
	}

	if *verbose {
		multiview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	doc, err := loadLayout(*layoutPath)
	if err != nil {
		log.Fatalf("Failed to load layout: %v", err)
	}
	if *dpr > 0 {
		doc.DevicePixelRatio = *dpr
	}
	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}

	cs := render.ColorSpaceSRGB
	if *linear {
		cs = render.ColorSpaceLinear
	}
	app, err := newApp(doc, cs)
	if err != nil {
		log.Fatalf("Failed to build views: %v", err)
	}
	defer app.close()

	if *watch && *layoutPath != "" {
		w, err := layout.Watch(*layoutPath, app.reload)
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", *layoutPath, err)
		}
		defer func() { _ = w.Close() }()
	}

	dt := time.Duration(float64(time.Second) / *fps)
	bar := progressbar.Default(int64(*frames), "rendering")
	defer func() { _ = bar.Close() }()

	for i := range *frames {
		if *regress > 0 && i > 0 && i%*regress == 0 {
			app.perf.Regress(app.now)
		}
		app.applyPending()
		app.sweep(float64(i) / float64(max(*frames-1, 1)))

		stats := app.frame(dt)
		if err := stats.Err(); err != nil {
			log.Printf("Frame %d: %v", stats.Frame, err)
		}

		name := filepath.Join(*output, fmt.Sprintf("frame-%04d.png", i))
		if err := savePNG(name, app.surface); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		_ = bar.Add(1)
	}

	log.Printf("Rendered %d frames to %s (%dx%d)\n", *frames, *output, app.surface.Width(), app.surface.Height())
}

func loadLayout(path string) (*layout.Document, error) {
	if path == "" {
		return layout.Parse(defaultLayout)
	}
	return layout.Load(path)
}

func savePNG(name string, surface *render.PixmapTarget) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, surface.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
