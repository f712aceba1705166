package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const dropboxRawHost = "dl.dropboxusercontent.com"

var driveFilePath = regexp.MustCompile(`^/file/d/([A-Za-z0-9_-]+)`)

// ToDropboxRaw rewrites a Dropbox share link into a link that serves the file bytes.
// Applying it to an already converted link returns the same link.
func ToDropboxRaw(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return link
	}

	host := strings.ToLower(u.Host)
	if host != "www.dropbox.com" && host != "dropbox.com" && host != dropboxRawHost {
		return link
	}
	u.Host = dropboxRawHost

	q := u.Query()
	q.Del("dl")
	q.Set("raw", "1")
	u.RawQuery = q.Encode()
	return u.String()
}

// ToDriveDirect rewrites a Google Drive share link into the uc?id= form
func ToDriveDirect(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || !strings.EqualFold(u.Host, "drive.google.com") {
		return link
	}
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		return fmt.Sprintf("https://drive.google.com/uc?id=%s", m[1])
	}
	if id := u.Query().Get("id"); id != "" {
		return fmt.Sprintf("https://drive.google.com/uc?id=%s", id)
	}
	return link
}

// NormalizeImageURL cleans an image cell into a direct link, or "" when empty
func NormalizeImageURL(raw string) string {
	link := strings.TrimSpace(raw)
	if link == "" {
		return ""
	}
	lower := strings.ToLower(link)
	switch {
	case strings.Contains(lower, "dropbox.com"), strings.Contains(lower, "dropboxusercontent.com"):
		return ToDropboxRaw(link)
	case strings.Contains(lower, "drive.google.com"):
		return ToDriveDirect(link)
	}
	return link
}
