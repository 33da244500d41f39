package id3

import (
	"strconv"

	"github.com/bogem/id3v2/v2"
)

const (
	frameAlbumArtist = "TPE2"
	frameTrackNumber = "TRCK"
	frameDiscNumber  = "TPOS"
	frameLength      = "TLEN"
	frameUserText    = "TXXX"
	frameLyrics      = "USLT"
	framePicture     = "APIC"

	descSpotifyID   = "SPOTIFY_ID"
	descArtworkURL  = "ARTWORK_URL"
	descUpstreamURL = "UPSTREAM_URL"

	LyricsLanguage = "eng"
)

type Tag struct {
	*id3v2.Tag
}

func Open(path string, options id3v2.Options) (*Tag, error) {
	tag, err := id3v2.Open(path, options)
	if err != nil {
		return nil, err
	}
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	return &Tag{tag}, nil
}

func (tag *Tag) setText(id, value string) {
	tag.DeleteFrames(id)
	if value != "" {
		tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	}
}

func (tag *Tag) text(id string) string {
	return tag.GetTextFrame(id).Text
}

func (tag *Tag) setUserText(description, value string) {
	frames := tag.GetFrames(frameUserText)
	tag.DeleteFrames(frameUserText)
	for _, frame := range frames {
		if userFrame, ok := frame.(id3v2.UserDefinedTextFrame); ok && userFrame.Description != description {
			tag.AddUserDefinedTextFrame(userFrame)
		}
	}
	if value != "" {
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: description,
			Value:       value,
		})
	}
}

func (tag *Tag) userText(description string) string {
	for _, frame := range tag.GetFrames(frameUserText) {
		if userFrame, ok := frame.(id3v2.UserDefinedTextFrame); ok && userFrame.Description == description {
			return userFrame.Value
		}
	}
	return ""
}

func (tag *Tag) SetSpotifyID(id string) {
	tag.setUserText(descSpotifyID, id)
}

func (tag *Tag) SpotifyID() string {
	return tag.userText(descSpotifyID)
}

func (tag *Tag) SetArtworkURL(url string) {
	tag.setUserText(descArtworkURL, url)
}

func (tag *Tag) ArtworkURL() string {
	return tag.userText(descArtworkURL)
}

func (tag *Tag) SetUpstreamURL(url string) {
	tag.setUserText(descUpstreamURL, url)
}

func (tag *Tag) UpstreamURL() string {
	return tag.userText(descUpstreamURL)
}

func (tag *Tag) SetAlbumArtist(artist string) {
	tag.setText(frameAlbumArtist, artist)
}

func (tag *Tag) AlbumArtist() string {
	return tag.text(frameAlbumArtist)
}

func (tag *Tag) SetTrackNumber(number int) {
	tag.setText(frameTrackNumber, positive(number))
}

func (tag *Tag) TrackNumber() string {
	return tag.text(frameTrackNumber)
}

func (tag *Tag) SetDiscNumber(number int) {
	tag.setText(frameDiscNumber, positive(number))
}

func (tag *Tag) DiscNumber() string {
	return tag.text(frameDiscNumber)
}

// SetDuration stores the track length, in seconds, as milliseconds.
func (tag *Tag) SetDuration(seconds int) {
	if seconds <= 0 {
		tag.setText(frameLength, "")
		return
	}
	tag.setText(frameLength, strconv.Itoa(seconds*1000))
}

func (tag *Tag) SetReleaseYear(year int) {
	if year > 0 {
		tag.SetYear(strconv.Itoa(year))
	}
}

func (tag *Tag) SetLyrics(lyrics string) {
	tag.DeleteFrames(frameLyrics)
	if lyrics == "" {
		return
	}
	tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding:          id3v2.EncodingUTF8,
		Language:          LyricsLanguage,
		ContentDescriptor: "",
		Lyrics:            lyrics,
	})
}

func (tag *Tag) Lyrics() string {
	for _, frame := range tag.GetFrames(frameLyrics) {
		if lyricsFrame, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok {
			return lyricsFrame.Lyrics
		}
	}
	return ""
}

// SetAttachedPicture embeds data as the front cover.
func (tag *Tag) SetAttachedPicture(data []byte) {
	tag.DeleteFrames(framePicture)
	if len(data) == 0 {
		return
	}
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Front cover",
		Picture:     data,
	})
}

func (tag *Tag) AttachedPicture() []byte {
	for _, frame := range tag.GetFrames(framePicture) {
		if picture, ok := frame.(id3v2.PictureFrame); ok {
			return picture.Picture
		}
	}
	return nil
}

func positive(number int) string {
	if number <= 0 {
		return ""
	}
	return strconv.Itoa(number)
}
