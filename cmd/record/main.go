// Command record is a microphone-capture driver tool, explicitly
// outside the core per spec.md §1's scope note on "example driver
// programs": it writes a fixed-length capture to a WAV file so it can
// later be transcoded and fed to soundmark's add/recognize commands.
// Capture uses github.com/gordonklaus/portaudio, a direct dependency
// of doismellburning-samoyed/go.mod. The WAV header layout is adapted
// from Prayush09-MusicRecognition/fileformat/wav.go's writeWavHeader.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 44100
	channels   = 1
	bufferSize = 1024
)

func main() {
	out := flag.String("out", "capture.wav", "output WAV path")
	seconds := flag.Float64("seconds", 5, "capture length in seconds")
	flag.Parse()

	if err := run(*out, *seconds); err != nil {
		fmt.Fprintln(os.Stderr, "record:", err)
		os.Exit(1)
	}
}

func run(path string, seconds float64) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	buf := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("opening input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	var samples []int16
	frames := int(seconds * sampleRate)
	for len(samples) < frames {
		if err := stream.Read(); err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}
		samples = append(samples, buf...)
	}

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("stopping stream: %w", err)
	}

	return writeWav(path, samples, sampleRate, channels)
}

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	BytesPerSec   uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func writeWav(path string, samples []int16, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const bitsPerSample = 16
	bytesPerSample := bitsPerSample / 8
	data := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + len(data)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		BytesPerSec:   uint32(channels * sampleRate * bytesPerSample),
		BlockAlign:    uint16(channels * bytesPerSample),
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(data)),
	}

	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	_, err = f.Write(data)
	return err
}
