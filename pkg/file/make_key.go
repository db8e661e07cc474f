package file

import (
	"fmt"

	consts "video-svc/pkg/constants"
)

// MakeDataKey is the storage key of a video's binary data.
func MakeDataKey(videoID int64) string {
	return fmt.Sprintf(consts.DataKeyFormat, videoID)
}
