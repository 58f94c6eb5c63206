package views

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
	"github.com/obraportal/portal-client/internal/ui/dialog"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

// GroupByRoom buckets images by room in order of first appearance. Images
// without a room share the NoRoomKey group; a missing room name is labelled
// NoRoomLabel.
func GroupByRoom(images []domain.Image) []domain.ImageGroup {
	groups := make([]domain.ImageGroup, 0)
	index := make(map[string]int)
	for _, img := range images {
		key := domain.NoRoomKey
		if img.RoomID != nil {
			key = strconv.FormatInt(*img.RoomID, 10)
		}
		i, ok := index[key]
		if !ok {
			name := domain.NoRoomLabel
			if img.RoomID != nil && img.RoomName != nil && *img.RoomName != "" {
				name = *img.RoomName
			}
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.ImageGroup{Key: key, Name: name})
		}
		groups[i].Images = append(groups[i].Images, img)
	}
	return groups
}

// ImageForm uploads one building photo.
type ImageForm struct {
	Room string `validate:"omitempty,numeric"`
	File Attachment
}

func (f ImageForm) Validate() error {
	if len(f.File.Data) == 0 {
		return errNoFile
	}
	return nil
}

// ImagesView shows a building's photos grouped by room.
type ImagesView struct {
	*keyed[[]domain.Image]
	api ImagesAPI

	Upload *dialog.Dialog[ImageForm]
}

func NewImagesView(api ImagesAPI, log zerolog.Logger) *ImagesView {
	v := &ImagesView{api: api}
	v.keyed = newKeyed("images",
		fetch.Copy{Waiting: "Select a building to see its photos.", Empty: "No photos uploaded for this building."},
		isEmptyList[domain.Image],
		api.ListBuildingImages,
		log,
	)
	v.Upload = dialog.New(v.upload,
		dialog.WithRefresh(v.Reload),
		dialog.WithSuccessMessage("Photo uploaded."),
	)
	return v
}

// Groups is recomputed from the loaded images on every call.
func (v *ImagesView) Groups() []domain.ImageGroup {
	return GroupByRoom(v.Items())
}

func (v *ImagesView) upload(ctx context.Context, f ImageForm) error {
	building, ok := v.Key()
	if !ok {
		return errNoBuilding
	}
	return v.api.UploadBuildingImage(ctx, building, apiclient.NewImage{
		RoomID:   optionalID(f.Room),
		Filename: f.File.Name,
		Data:     f.File.Data,
	})
}
