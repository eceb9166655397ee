package lib

import (
	"fmt"
	"log"
	"os"
	"path"

	"github.com/yeqown/go-qrcode"
)

// GenerateQRCode renders the content into a PNG under the temp dir and
// returns the file path. Used for reservation check-in codes.
func GenerateQRCode(name string, content string) (string, error) {
	qrc, err := qrcode.New(content)
	if err != nil {
		log.Printf("[qrcode] Error encoding content: %s\n", err.Error())
		return "", err
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	tempdir := os.Getenv("TEMP_DIR")
	filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.png", name))
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}
	return filepath, nil
}
