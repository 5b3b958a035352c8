package volume

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"transforminit/internal/models"
)

// LoadRaw reads a headerless volume of little-endian float64 samples,
// axis 0 fastest. The geometry supplies the grid size.
func LoadRaw(path string, g models.ImageGeometry) (*Image, error) {
	img, err := NewImage(g)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw volume: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat raw volume: %w", err)
	}
	if want := int64(8 * len(img.Data)); info.Size() != want {
		return nil, fmt.Errorf("raw volume %s holds %d bytes, geometry expects %d", path, info.Size(), want)
	}

	if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, img.Data); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, fmt.Errorf("raw volume %s is shorter than %d samples", path, len(img.Data))
		}
		return nil, fmt.Errorf("failed to read raw volume: %w", err)
	}
	return img, nil
}

// LoadRawMask reads a headerless mask with one byte per sample.
func LoadRawMask(path string, g models.ImageGeometry) (*Mask, error) {
	m, err := NewMask(g)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw mask: %w", err)
	}
	defer f.Close()

	if _, err := io.ReadFull(f, m.Data); err != nil {
		return nil, fmt.Errorf("failed to read raw mask %s: %w", path, err)
	}
	return m, nil
}

// SaveRaw writes the image samples as little-endian float64 values.
func SaveRaw(path string, img *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create raw volume: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, img.Data); err != nil {
		return fmt.Errorf("failed to write raw volume: %w", err)
	}
	return w.Flush()
}

// LoadPicture decodes a 2-D picture (PNG, JPEG, TIFF, BMP, GIF) into a
// grayscale image. Axis 0 runs along the picture columns, axis 1 along the
// rows. When g.Size is empty it is taken from the picture bounds,
// otherwise it must match them.
func LoadPicture(path string, g models.ImageGeometry) (*Image, error) {
	pic, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load picture: %w", err)
	}
	gray := imaging.Grayscale(pic)
	bounds := gray.Bounds()

	if len(g.Size) == 0 {
		g.Size = []int{bounds.Dx(), bounds.Dy()}
	}
	if len(g.Size) != 2 || g.Size[0] != bounds.Dx() || g.Size[1] != bounds.Dy() {
		return nil, fmt.Errorf("picture %s is %dx%d, geometry expects %v", path, bounds.Dx(), bounds.Dy(), g.Size)
	}

	img, err := NewImage(g)
	if err != nil {
		return nil, err
	}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.GrayModel.Convert(gray.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			img.Data[y*bounds.Dx()+x] = float64(c.Y)
		}
	}
	return img, nil
}

// MaskFromImage builds a mask that includes every nonzero sample of img.
func MaskFromImage(img *Image) *Mask {
	m := &Mask{Geometry: img.Geometry, Data: make([]uint8, len(img.Data))}
	for i, v := range img.Data {
		if v != 0 {
			m.Data[i] = 1
		}
	}
	return m
}
