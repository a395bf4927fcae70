package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	PortraitMaxWidth      = 1200
	PortraitJpegQuality   = 85
	PortraitFileExtension = ".jpg"

	ThumbnailJpegQuality   = 90
	ThumbnailFileExtension = ".jpg"
)

// Processor handles portrait transformations. It relies on a Store
// implementation for saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// ProcessPortrait normalizes an uploaded portrait (capped width, re-encoded
// JPEG) and generates its thumbnail. Both are stored under the person's slug.
// Returns the relative paths of the portrait and the thumbnail.
func (p *Processor) ProcessPortrait(fileData io.Reader, personSlug string, thumbMaxSize int) (string, string, error) {
	img, format, err := image.Decode(fileData)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode uploaded portrait image: %w", err)
	}
	log.Printf("processor: Decoded uploaded portrait (format: %s)", format)

	processedImg := img
	if img.Bounds().Dx() > PortraitMaxWidth {
		processedImg = imaging.Resize(img, PortraitMaxWidth, 0, imaging.Lanczos)
	}

	portraitRelPath, err := p.encodeAndSave(processedImg, AssetTypePortrait, personSlug, PortraitFileExtension, PortraitJpegQuality)
	if err != nil {
		return "", "", fmt.Errorf("failed to save portrait: %w", err)
	}

	thumb := imaging.Fit(processedImg, thumbMaxSize, thumbMaxSize, imaging.Lanczos)
	thumbRelPath, err := p.encodeAndSave(thumb, AssetTypeThumbnail, personSlug, ThumbnailFileExtension, ThumbnailJpegQuality)
	if err != nil {
		return "", "", fmt.Errorf("failed to save portrait thumbnail: %w", err)
	}

	log.Printf("processor: Saved portrait %s (thumbnail %s)", portraitRelPath, thumbRelPath)
	return portraitRelPath, thumbRelPath, nil
}

// encodeAndSave streams a JPEG encoding of img into the store under a UUID
// filename.
func (p *Processor) encodeAndSave(img image.Image, assetType AssetType, dirHint, extension string, quality int) (string, error) {
	reader, writer := io.Pipe()

	go func() {
		defer writer.Close()
		err := imaging.Encode(writer, img, imaging.JPEG, imaging.JPEGQuality(quality))
		if err != nil {
			log.Printf("processor: Failed to encode %s: %v", assetType, err)
			writer.CloseWithError(fmt.Errorf("%s encoding failed: %w", assetType, err))
		}
	}()

	assetUUID, err := uuid.NewRandom()
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to generate UUID for %s: %w", assetType, err)
	}
	targetFilename := assetUUID.String() + extension

	savedRelPath, err := p.store.Save(assetType, dirHint, targetFilename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to save %s via store: %w", assetType, err)
	}
	return savedRelPath, nil
}
