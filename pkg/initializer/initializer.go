// Package initializer computes a starting center of rotation and
// translation for a centered transform from a fixed and a moving image.
//
// The caller configures the images, optional masks, the transform and one
// initialization mode, then calls InitializeTransform. The transform is
// written only when every quantity of the selected mode has been computed,
// so a failed call leaves it exactly as it was.
package initializer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"transforminit/internal/models"
	"transforminit/pkg/geometry"
	"transforminit/pkg/moments"
	"transforminit/pkg/transform"
	"transforminit/pkg/volume"
)

var (
	// ErrConfiguration reports a missing or unusable input.
	ErrConfiguration = errors.New("initializer configuration error")

	// ErrDimensionMismatch reports images, masks and transform that do not
	// share one dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDegenerateMoments reports a zero total mass in Moments mode.
	ErrDegenerateMoments = errors.New("degenerate image moments")
)

// Result is the pair written into the transform by a successful call.
type Result struct {
	Center      models.Point
	Translation models.Vector
}

// Initializer holds the inputs of one transform initialization. It owns
// none of them; images and masks are only read during InitializeTransform.
type Initializer struct {
	transform transform.Transform

	fixedImage      *volume.Image
	movingImage     *volume.Image
	fixedImageMask  *volume.Mask
	movingImageMask *volume.Mask

	mode Mode

	fixedCalculator  moments.Calculator
	movingCalculator moments.Calculator

	logger logrus.FieldLogger
	result *Result
}

// New returns an initializer in Geometry mode using the default moments
// calculator and the standard logrus logger.
func New() *Initializer {
	return &Initializer{
		mode:             Geometry,
		fixedCalculator:  moments.NewImageCalculator(),
		movingCalculator: moments.NewImageCalculator(),
		logger:           logrus.StandardLogger(),
	}
}

// SetTransform sets the transform to initialize.
func (in *Initializer) SetTransform(t transform.Transform) { in.transform = t }

// SetFixedImage sets the fixed image.
func (in *Initializer) SetFixedImage(img *volume.Image) { in.fixedImage = img }

// SetMovingImage sets the moving image.
func (in *Initializer) SetMovingImage(img *volume.Image) { in.movingImage = img }

// SetFixedImageMask restricts the fixed moments to a mask; nil removes it.
func (in *Initializer) SetFixedImageMask(m *volume.Mask) { in.fixedImageMask = m }

// SetMovingImageMask restricts the moving moments to a mask; nil removes it.
func (in *Initializer) SetMovingImageMask(m *volume.Mask) { in.movingImageMask = m }

// SetLogger replaces the logger. A nil logger restores the standard one.
func (in *Initializer) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	in.logger = l
}

// GeometryOn selects Geometry mode.
func (in *Initializer) GeometryOn() { in.mode = Geometry }

// MomentsOn selects Moments mode.
func (in *Initializer) MomentsOn() { in.mode = Moments }

// OriginsOn selects Origins mode.
func (in *Initializer) OriginsOn() { in.mode = Origins }

// GeometryTopOn selects GeometryTop mode.
func (in *Initializer) GeometryTopOn() { in.mode = GeometryTop }

// SetMode selects m. Unknown modes are rejected.
func (in *Initializer) SetMode(m Mode) error {
	if _, ok := modeNames[m]; !ok {
		return fmt.Errorf("%w: unknown mode %d", ErrConfiguration, int(m))
	}
	in.mode = m
	return nil
}

// Mode returns the active mode.
func (in *Initializer) Mode() Mode { return in.mode }

// FixedCalculator returns the calculator used for the fixed image moments.
func (in *Initializer) FixedCalculator() moments.Calculator { return in.fixedCalculator }

// MovingCalculator returns the calculator used for the moving image moments.
func (in *Initializer) MovingCalculator() moments.Calculator { return in.movingCalculator }

// SetFixedCalculator replaces the fixed image moments calculator.
func (in *Initializer) SetFixedCalculator(c moments.Calculator) { in.fixedCalculator = c }

// SetMovingCalculator replaces the moving image moments calculator.
func (in *Initializer) SetMovingCalculator(c moments.Calculator) { in.movingCalculator = c }

// Result returns the values applied by the last successful call, or nil.
func (in *Initializer) Result() *Result { return in.result }

// InitializeTransform computes the center and translation for the active
// mode and writes both into the transform.
func (in *Initializer) InitializeTransform() error {
	if err := in.validate(); err != nil {
		return err
	}

	var (
		res Result
		err error
	)
	switch in.mode {
	case Geometry:
		res = in.fromGeometry()
	case Moments:
		res, err = in.fromMoments()
	case Origins:
		res = in.fromOrigins()
	case GeometryTop:
		res = in.fromGeometryTop()
	default:
		err = fmt.Errorf("%w: unknown mode %d", ErrConfiguration, int(in.mode))
	}
	if err != nil {
		return err
	}

	in.transform.SetCenter(res.Center)
	in.transform.SetTranslation(res.Translation)
	in.result = &res

	in.logger.WithFields(logrus.Fields{
		"mode":        in.mode.String(),
		"center":      []float64(res.Center),
		"translation": []float64(res.Translation),
	}).Debug("Transform initialized")
	return nil
}

func (in *Initializer) validate() error {
	switch {
	case in.transform == nil:
		return fmt.Errorf("%w: transform is not set", ErrConfiguration)
	case in.fixedImage == nil:
		return fmt.Errorf("%w: fixed image is not set", ErrConfiguration)
	case in.movingImage == nil:
		return fmt.Errorf("%w: moving image is not set", ErrConfiguration)
	}

	fixedDim := in.fixedImage.Dimension()
	movingDim := in.movingImage.Dimension()
	if fixedDim != in.transform.InputSpaceDimension() {
		return fmt.Errorf("%w: fixed image has %d axes, transform input space has %d",
			ErrDimensionMismatch, fixedDim, in.transform.InputSpaceDimension())
	}
	if movingDim != in.transform.OutputSpaceDimension() {
		return fmt.Errorf("%w: moving image has %d axes, transform output space has %d",
			ErrDimensionMismatch, movingDim, in.transform.OutputSpaceDimension())
	}
	if fixedDim != movingDim {
		return fmt.Errorf("%w: fixed image has %d axes, moving image has %d",
			ErrDimensionMismatch, fixedDim, movingDim)
	}
	if err := in.fixedImage.Geometry.Validate(); err != nil {
		return fmt.Errorf("%w: fixed image: %v", ErrConfiguration, err)
	}
	if err := in.movingImage.Geometry.Validate(); err != nil {
		return fmt.Errorf("%w: moving image: %v", ErrConfiguration, err)
	}
	if in.mode == Moments {
		return in.validateMoments()
	}
	return nil
}

// validateMoments checks the inputs only Moments mode reads: sample data,
// masks and calculators. Masks are ignored by the other modes.
func (in *Initializer) validateMoments() error {
	if in.fixedCalculator == nil || in.movingCalculator == nil {
		return fmt.Errorf("%w: moments calculator is not set", ErrConfiguration)
	}
	inputs := []struct {
		name  string
		image *volume.Image
		mask  *volume.Mask
	}{
		{"fixed", in.fixedImage, in.fixedImageMask},
		{"moving", in.movingImage, in.movingImageMask},
	}
	for _, input := range inputs {
		if got, want := len(input.image.Data), input.image.Geometry.NumberOfSamples(); got != want {
			return fmt.Errorf("%w: %s image holds %d samples, geometry expects %d",
				ErrConfiguration, input.name, got, want)
		}
		m := input.mask
		if m == nil {
			continue
		}
		if m.Dimension() != input.image.Dimension() {
			return fmt.Errorf("%w: %s mask has %d axes, %s image has %d",
				ErrDimensionMismatch, input.name, m.Dimension(), input.name, input.image.Dimension())
		}
		if err := m.Geometry.Validate(); err != nil {
			return fmt.Errorf("%w: %s mask: %v", ErrConfiguration, input.name, err)
		}
		if got, want := len(m.Data), m.Geometry.NumberOfSamples(); got != want {
			return fmt.Errorf("%w: %s mask holds %d samples, geometry expects %d",
				ErrConfiguration, input.name, got, want)
		}
	}
	return nil
}

func (in *Initializer) fromGeometry() Result {
	fixedCenter := geometry.Center(in.fixedImage.Geometry)
	movingCenter := geometry.Center(in.movingImage.Geometry)
	return Result{
		Center:      fixedCenter,
		Translation: geometry.Subtract(movingCenter, fixedCenter),
	}
}

func (in *Initializer) fromMoments() (Result, error) {
	fixed, err := in.fixedCalculator.Compute(in.fixedImage, in.fixedImageMask)
	if err != nil {
		return Result{}, momentsError("fixed", err)
	}
	moving, err := in.movingCalculator.Compute(in.movingImage, in.movingImageMask)
	if err != nil {
		return Result{}, momentsError("moving", err)
	}
	in.logger.WithFields(logrus.Fields{
		"fixed_mass":  fixed.Mass,
		"moving_mass": moving.Mass,
	}).Debug("Image moments computed")

	return Result{
		Center:      moving.Point.Clone(),
		Translation: geometry.Subtract(moving.Point, fixed.Point),
	}, nil
}

func momentsError(which string, err error) error {
	if errors.Is(err, moments.ErrDegenerate) {
		return fmt.Errorf("%w: %s image: %v", ErrDegenerateMoments, which, err)
	}
	return fmt.Errorf("%s image moments: %w", which, err)
}

func (in *Initializer) fromOrigins() Result {
	t := geometry.Subtract(
		geometry.PhysicalOrigin(in.movingImage.Geometry),
		geometry.PhysicalOrigin(in.fixedImage.Geometry),
	)
	inverse := t.Clone()
	for i := range inverse {
		inverse[i] = -inverse[i]
	}
	return Result{
		Center:      geometry.Translate(geometry.Center(in.movingImage.Geometry), inverse),
		Translation: t,
	}
}

func (in *Initializer) fromGeometryTop() Result {
	fixedTop := geometry.MinPerAxis(geometry.Corners(in.fixedImage.Geometry))
	movingTop := geometry.MinPerAxis(geometry.Corners(in.movingImage.Geometry))
	return Result{
		Center:      geometry.Center(in.fixedImage.Geometry),
		Translation: geometry.Subtract(movingTop, fixedTop),
	}
}

// String describes the configuration of the initializer.
func (in *Initializer) String() string {
	var b strings.Builder
	b.WriteString("Initializer\n")
	fmt.Fprintf(&b, "  Mode: %s\n", in.mode)
	fmt.Fprintf(&b, "  Transform set: %t\n", in.transform != nil)
	fmt.Fprintf(&b, "  Fixed image: %s\n", describeImage(in.fixedImage))
	fmt.Fprintf(&b, "  Moving image: %s\n", describeImage(in.movingImage))
	fmt.Fprintf(&b, "  Fixed mask set: %t\n", in.fixedImageMask != nil)
	fmt.Fprintf(&b, "  Moving mask set: %t\n", in.movingImageMask != nil)
	return b.String()
}

func describeImage(img *volume.Image) string {
	if img == nil {
		return "<nil>"
	}
	g := img.Geometry
	return fmt.Sprintf("size %v spacing %v origin %v", g.Size, g.Spacing, []float64(g.Origin))
}
