package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	stego "github.com/yyyoichi/lsbstego"
	"github.com/yyyoichi/lsbstego/internal/imgio"
	"github.com/yyyoichi/lsbstego/quality"
)

const usage = `usage: stego <command> [flags]

commands:
  encode    hide text, a file or an image in a carrier
  decode    recover a payload from a carrier
  capacity  report how much a carrier can hold
  compare   measure the difference between two images`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, logger)
	stop()
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		logger.Error("stego failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, usage)
		return errUsage
	}
	switch args[0] {
	case "encode":
		return encode(ctx, args[1:], stdin, logger)
	case "decode":
		return decode(ctx, args[1:], stdout, logger)
	case "capacity":
		return capacity(args[1:], stdout)
	case "compare":
		return compare(args[1:], stdout)
	}
	fmt.Fprintln(os.Stderr, usage)
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

type codecFlags struct {
	channels int
	runeBits int
	compress bool
}

func (c *codecFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&c.channels, "channels", 4, "channels carrying data: 1 (gray), 3 (RGB) or 4 (RGBA)")
	fs.IntVar(&c.runeBits, "rune-bits", 8, "bits per text character, 8 (Latin-1) to 32")
	fs.BoolVar(&c.compress, "compress", false, "zstd-compress file payloads")
}

func (c *codecFlags) options() []stego.Option {
	opts := []stego.Option{stego.WithChannels(c.channels), stego.WithRuneBits(c.runeBits)}
	if c.compress {
		opts = append(opts, stego.WithCompression())
	}
	return opts
}

func encode(ctx context.Context, args []string, stdin io.Reader, logger *slog.Logger) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	in := fs.String("in", "", "carrier image (required)")
	out := fs.String("out", "", "output image, .png, .bmp or .tiff (required)")
	kind := fs.String("kind", "text", "payload kind: text, file or image")
	payload := fs.String("payload", "", "text to hide, or path of the file or image; text is read from stdin when empty")
	var cf codecFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		fs.Usage()
		return fmt.Errorf("%w: -in and -out are required", errUsage)
	}
	// Fail on a lossy or unknown output before doing any work.
	format, err := imgio.FormatOf(*out)
	if err != nil {
		return err
	}
	if cf.channels == 4 && !format.KeepsAlpha() {
		return fmt.Errorf("%w: %s output with -channels 4, use -channels 3 or png/tiff", imgio.ErrAlphaUnsupported, format)
	}

	s, err := stego.New(cf.options()...)
	if err != nil {
		return err
	}
	carrier, inFormat, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	logger.Info("carrier loaded", "path", *in, "format", inFormat,
		"bounds", carrier.Bounds().Size(), "slots", s.Capacity(carrier))

	var encoded image.Image
	switch *kind {
	case "text":
		text := *payload
		if text == "" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = strings.TrimSuffix(string(b), "\n")
		}
		encoded, err = s.EncodeText(ctx, carrier, text)
	case "file":
		if *payload == "" {
			return fmt.Errorf("%w: -payload file is required", errUsage)
		}
		data, rerr := os.ReadFile(*payload)
		if rerr != nil {
			return rerr
		}
		logger.Info("payload loaded", "path", *payload, "bytes", len(data), "max", s.MaxBinary(carrier))
		encoded, err = s.EncodeBinary(ctx, carrier, data)
	case "image":
		if *payload == "" {
			return fmt.Errorf("%w: -payload image is required", errUsage)
		}
		hidden, _, lerr := imgio.Load(*payload)
		if lerr != nil {
			return lerr
		}
		encoded, err = s.EncodeImage(ctx, carrier, hidden)
	default:
		return fmt.Errorf("%w: unknown kind %q", errUsage, *kind)
	}
	if err != nil {
		return err
	}

	if err := imgio.Save(*out, encoded); err != nil {
		return err
	}
	logger.Info("payload hidden", "kind", *kind, "out", *out)
	return nil
}

func decode(ctx context.Context, args []string, stdout io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	in := fs.String("in", "", "stego image (required)")
	out := fs.String("out", "", "output path; required for file and image, text goes to stdout when empty")
	kind := fs.String("kind", "text", "payload kind: text, file or image")
	var cf codecFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return fmt.Errorf("%w: -in is required", errUsage)
	}
	if *kind != "text" && *out == "" {
		return fmt.Errorf("%w: -out is required for kind %q", errUsage, *kind)
	}

	s, err := stego.New(cf.options()...)
	if err != nil {
		return err
	}
	carrier, _, err := imgio.Load(*in)
	if err != nil {
		return err
	}

	switch *kind {
	case "text":
		text, err := s.DecodeText(ctx, carrier)
		if err != nil {
			return err
		}
		if *out == "" {
			_, err = fmt.Fprintln(stdout, text)
			return err
		}
		return writeFile(*out, []byte(text))
	case "file":
		data, err := s.DecodeBinary(ctx, carrier)
		if err != nil {
			return err
		}
		logger.Info("payload recovered", "bytes", len(data), "out", *out)
		return writeFile(*out, data)
	case "image":
		hidden, err := s.DecodeImage(ctx, carrier)
		if err != nil {
			return err
		}
		logger.Info("image recovered", "bounds", hidden.Bounds().Size(), "out", *out)
		return imgio.Save(*out, hidden)
	}
	return fmt.Errorf("%w: unknown kind %q", errUsage, *kind)
}

func writeFile(path string, data []byte) error {
	return imgio.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func capacity(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("capacity", flag.ContinueOnError)
	in := fs.String("in", "", "carrier image (required)")
	var cf codecFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return fmt.Errorf("%w: -in is required", errUsage)
	}
	s, err := stego.New(cf.options()...)
	if err != nil {
		return err
	}
	carrier, _, err := imgio.Load(*in)
	if err != nil {
		return err
	}

	slots := s.Capacity(carrier)
	chars := uint64(0)
	if slots > 16 {
		chars = min((slots-16)/uint64(cf.runeBits), 1<<16-1)
	}
	_, err = fmt.Fprintf(stdout, "slots\t%d\nbinary_bytes\t%d\ntext_chars\t%d\n", slots, s.MaxBinary(carrier), chars)
	return err
}

func compare(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	a := fs.String("a", "", "original image (required)")
	b := fs.String("b", "", "stego image (required)")
	channels := fs.Int("channels", 4, "channels to compare: 1, 3 or 4")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *a == "" || *b == "" {
		fs.Usage()
		return fmt.Errorf("%w: -a and -b are required", errUsage)
	}
	original, _, err := imgio.Load(*a)
	if err != nil {
		return err
	}
	modified, _, err := imgio.Load(*b)
	if err != nil {
		return err
	}
	r, err := quality.Compare(original, modified, *channels)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "samples\t%d\nchanged\t%d\nmse\t%.6f\npsnr\t%.2f\nluma_psnr\t%.2f\nmax_diff\t%.0f\nplanes\t%v\n",
		r.Samples, r.Changed, r.MSE, r.PSNR, r.LumaPSNR, r.MaxDiff, r.Planes)
	return err
}
