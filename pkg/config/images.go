package config

import (
	"fmt"

	"transforminit/pkg/volume"
)

// Load reads the image and, when MaskPath is set, its mask.
func (ic ImageConfig) Load() (*volume.Image, *volume.Mask, error) {
	g, err := ic.Geometry()
	if err != nil {
		return nil, nil, err
	}

	var img *volume.Image
	switch ic.Format {
	case "", FormatRaw:
		img, err = volume.LoadRaw(ic.Path, g)
	case FormatPicture:
		img, err = volume.LoadPicture(ic.Path, g)
	default:
		return nil, nil, fmt.Errorf("unknown image format %q", ic.Format)
	}
	if err != nil {
		return nil, nil, err
	}

	if ic.MaskPath == "" {
		return img, nil, nil
	}
	mask, err := volume.LoadRawMask(ic.MaskPath, img.Geometry)
	if err != nil {
		return nil, nil, err
	}
	return img, mask, nil
}
