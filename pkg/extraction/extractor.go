// Package extraction runs the surface extraction pipeline of the vol
// commands: it reads a 3D image, thresholds it into a digital shape, finds a
// boundary element and either tracks the whole boundary component or visits
// it in order of distance, then optionally renders the result.
package extraction

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"dgsurface/internal/models"
	"dgsurface/internal/trace"
	"dgsurface/pkg/config"
	"dgsurface/pkg/functors"
	"dgsurface/pkg/images"
	"dgsurface/pkg/kspace"
	"dgsurface/pkg/lsm"
	"dgsurface/pkg/report"
	"dgsurface/pkg/spatial"
	"dgsurface/pkg/topology"
	"dgsurface/pkg/visualization"
	"dgsurface/pkg/volio"
)

// ErrSpace is returned when the cellular space cannot be built over the
// image domain. The commands exit with a distinct code for it.
var ErrSpace = errors.New("error in creating KSpace")

// Mode selects what is done with the boundary component.
type Mode int

const (
	// ModeTrack collects every surfel of the component.
	ModeTrack Mode = iota

	// ModeDistance visits the component in order of distance to a point.
	ModeDistance
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeTrack:
		return "track"
	case ModeDistance:
		return "distance"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Params holds the extraction parameters.
type Params struct {
	// InputFile is the vol file holding the 3D image.
	InputFile string

	// Volume, when set, is used instead of reading InputFile.
	Volume *models.Volume

	// Mode selects tracking or distance traversal.
	Mode Mode

	// Config holds the threshold, tracking, visitor and render settings.
	// A nil Config selects config.DefaultConfig().
	Config *config.Config

	// Output receives the progress messages. Nil means os.Stdout.
	Output io.Writer
}

// Extractor handles one extraction. The process consists of:
// 1. Reading the vol file
// 2. Building the digital set of voxels within the threshold
// 3. Building the cellular space over the image domain
// 4. Setting up the surfel adjacency
// 5. Finding a first bel
// 6. Tracking the boundary component, or visiting it by distance
// 7. Rendering the surfels (optional)
// 8. Computing the surface metrics
type Extractor struct {
	params *Params
	cfg    *config.Config
	out    io.Writer

	volume *models.Volume
	set    *images.DigitalSet
	space  *kspace.KSpace
	adj    *topology.SurfelAdjacency
	bel    kspace.SCell

	// boundary holds the tracked component. In distance mode it is only
	// computed when a source point must be matched to a surfel.
	boundary *kspace.SCellSet

	// nodes holds the surfels of a distance traversal in visiting order
	nodes []topology.Node

	viewer  *visualization.Viewer
	metrics report.SurfaceMetrics
}

// NewExtractor creates an extractor for the given parameters.
func NewExtractor(params *Params) *Extractor {
	cfg := params.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := params.Output
	if out == nil {
		out = os.Stdout
	}
	return &Extractor{params: params, cfg: cfg, out: out}
}

// Process runs the complete extraction pipeline
func (e *Extractor) Process() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	// Step 1: Read the image
	fmt.Fprintln(e.out, "Step 1: Reading vol file...")
	if err := e.loadVolume(); err != nil {
		return fmt.Errorf("failed to read volume: %w", err)
	}

	// Step 2: Threshold
	fmt.Fprintln(e.out, "Step 2: Building digital set...")
	img := images.FromVolume(e.volume, kspace.Point{})
	e.set = images.SetFromImage(img, e.cfg.Threshold.Min, e.cfg.Threshold.Max)
	trace.Logger().Debug("digital set", "points", e.set.Len(), "min", e.cfg.Threshold.Min, "max", e.cfg.Threshold.Max)

	// Step 3: Cellular space
	fmt.Fprintln(e.out, "Step 3: Creating KSpace...")
	space, err := img.Space()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpace, err)
	}
	e.space = space

	// Step 4: Adjacency
	fmt.Fprintln(e.out, "Step 4: Setting surfel adjacency...")
	e.adj = topology.NewSurfelAdjacency(3, e.cfg.Tracking.Interior)

	// Step 5: First bel
	fmt.Fprintln(e.out, "Step 5: Finding a bel...")
	rng := rand.New(rand.NewSource(e.cfg.Tracking.Seed))
	bel, err := topology.FindABel(e.space, e.set, e.cfg.Tracking.MaxTrials, topology.WithRand(rng))
	if err != nil {
		return fmt.Errorf("failed to find a bel: %w", err)
	}
	e.bel = bel
	trace.Logger().Debug("found bel", "bel", bel.String())

	if e.cfg.Render.Enabled {
		viewer, err := visualization.NewViewer(e.space, e.cfg.Render.Scale)
		if err != nil {
			return fmt.Errorf("failed to create viewer: %w", err)
		}
		e.viewer = viewer
	}

	// Step 6: Traversal
	switch e.params.Mode {
	case ModeTrack:
		fmt.Fprintln(e.out, "Step 6: Tracking boundary...")
		err = e.track()
	case ModeDistance:
		fmt.Fprintln(e.out, "Step 6: Visiting boundary by distance...")
		err = e.traverse()
	default:
		err = fmt.Errorf("unknown mode %v", e.params.Mode)
	}
	if err != nil {
		return err
	}

	// Step 7: Render
	if e.viewer != nil {
		fmt.Fprintln(e.out, "Step 7: Rendering surfels...")
		if err := e.render(); err != nil {
			return fmt.Errorf("failed to render: %w", err)
		}
	}

	// Step 8: Metrics
	fmt.Fprintln(e.out, "Step 8: Computing surface metrics...")
	e.computeMetrics()

	return nil
}

func (e *Extractor) loadVolume() error {
	if e.params.Volume != nil {
		e.volume = e.params.Volume
		return nil
	}
	vol, err := volio.ReadFile(e.params.InputFile)
	if err != nil {
		return err
	}
	e.volume = vol
	return nil
}

// newMarker returns a fresh visited set as configured. The caller closes it.
func (e *Extractor) newMarker() (topology.Marker, error) {
	if e.cfg.Tracking.Marker == config.MarkerLSM {
		m, err := lsm.Open(e.cfg.Tracking.LSMDir)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return topology.NewMemoryMarker(), nil
}

// track collects the boundary component of the bel and draws it.
func (e *Extractor) track() error {
	if err := e.trackBoundary(); err != nil {
		return err
	}
	if e.viewer != nil {
		e.boundary.Each(func(s kspace.SCell) bool {
			e.viewer.Add(s, nil)
			return true
		})
	}
	return nil
}

func (e *Extractor) trackBoundary() error {
	block := trace.Begin("tracking")
	defer block.End()

	m, err := e.newMarker()
	if err != nil {
		return fmt.Errorf("failed to create marker: %w", err)
	}
	defer m.Close()

	boundary, err := topology.TrackBoundary(e.space, e.adj, e.set, e.bel, topology.WithMarker(m))
	if err != nil {
		return fmt.Errorf("failed to track boundary: %w", err)
	}
	e.boundary = boundary
	return nil
}

// seed picks the first surfel of the distance traversal and the functor
// ordering it. Without a source point the traversal starts at the bel and
// measures distances from it. With one, it starts at the surfel of the
// component nearest to the point and measures distances from the point.
func (e *Extractor) seed() (kspace.SCell, topology.VertexFunctor, error) {
	src := e.cfg.Visitor.Source
	if len(src) == 0 {
		return e.bel, functors.DistanceFrom(e.space, e.bel), nil
	}

	if err := e.trackBoundary(); err != nil {
		return kspace.SCell{}, nil, err
	}
	idx := spatial.NewSurfelIndex(e.space, e.boundary.Values())
	s, d, ok := idx.Nearest(src[0], src[1], src[2])
	if !ok {
		return kspace.SCell{}, nil, fmt.Errorf("no surfel near %v", src)
	}
	trace.Logger().Debug("seed near source", "source", src, "surfel", s.String(), "distance", d)

	origin := functors.RealPoint{src[0], src[1], src[2]}
	f := functors.Compose(functors.CanonicEmbedder{Space: e.space}, functors.NewDistanceToPoint(origin))
	return s, f, nil
}

// traverse visits the component twice: first to find the largest distance,
// then to record the nodes and color them with a colormap of that range.
func (e *Extractor) traverse() error {
	block := trace.Begin("distance traversal")
	defer block.End()

	seed, functor, err := e.seed()
	if err != nil {
		return err
	}

	surface, err := topology.NewImplicitSurface(e.space, e.set, e.adj, seed)
	if err != nil {
		return fmt.Errorf("failed to create surface: %w", err)
	}

	maxDist := 0.0
	err = e.visit(surface, functor, seed, func(n topology.Node) {
		if n.Distance > maxDist {
			maxDist = n.Distance
		}
	})
	if err != nil {
		return err
	}
	trace.Logger().Debug("first pass", "maxDist", maxDist)

	cmap := visualization.NewHueShadeColorMap(0, maxDist, e.cfg.Render.HueCycles)
	e.nodes = e.nodes[:0]
	return e.visit(surface, functor, seed, func(n topology.Node) {
		e.nodes = append(e.nodes, n)
		if e.viewer != nil {
			e.viewer.Add(n.Surfel, cmap.At(n.Distance))
		}
	})
}

// visit runs one distance traversal to completion.
func (e *Extractor) visit(surface *topology.ImplicitSurface, functor topology.VertexFunctor, seed kspace.SCell, fn func(topology.Node)) error {
	m, err := e.newMarker()
	if err != nil {
		return fmt.Errorf("failed to create marker: %w", err)
	}
	defer m.Close()

	v := topology.NewDistanceVisitor(surface, functor, seed, topology.WithMarker(m))
	v.Drain(func(n topology.Node) bool {
		fn(n)
		return true
	})
	return nil
}

// render writes the projection and, if asked, the slice sequence.
func (e *Extractor) render() error {
	axis := e.cfg.Render.Axis
	dir := e.cfg.Render.Dir
	name := fmt.Sprintf("%s_projection_%s.png", e.params.Mode, axis)
	if err := e.viewer.SaveProjection(axis, filepath.Join(dir, name)); err != nil {
		return err
	}
	if e.cfg.Render.Slices {
		return e.viewer.SaveSliceSequence(axis, filepath.Join(dir, fmt.Sprintf("%s_slices", e.params.Mode)))
	}
	return nil
}

func (e *Extractor) computeMetrics() {
	if e.params.Mode == ModeDistance {
		e.metrics = report.FromNodes(e.space, e.nodes)
	} else {
		e.metrics = report.FromSurfels(e.space, e.boundary.Values())
	}
	total := topology.MakeBoundary(e.space, e.set).Len()
	e.metrics = e.metrics.WithCoverage(total)
}

// Metrics returns the surface metrics of the last Process.
func (e *Extractor) Metrics() report.SurfaceMetrics { return e.metrics }

// Boundary returns the tracked component, or nil when it was not tracked.
func (e *Extractor) Boundary() *kspace.SCellSet { return e.boundary }

// Nodes returns the nodes of the distance traversal in visiting order.
func (e *Extractor) Nodes() []topology.Node { return e.nodes }

// Space returns the cellular space built over the image.
func (e *Extractor) Space() *kspace.KSpace { return e.space }

// Bel returns the bel the traversal started from.
func (e *Extractor) Bel() kspace.SCell { return e.bel }
