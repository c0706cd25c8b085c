//go:build js && wasm

package main

import (
	"bytes"
	"syscall/js"

	fr "fitsrender/pkg/fitsrender"
)

func main() {
	js.Global().Set("renderFITS", js.FuncOf(renderFITS))
	js.Global().Set("fitsInfo", js.FuncOf(fitsInfo))
	select {} // block forever
}

// renderFITS(fileBytes, {pattern, gain, rotate, annotate}) -> Uint8Array (PNG)
func renderFITS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: renderFITS(fileBytes, options)")
	}

	params := fr.DefaultParams()
	annotate := false
	if len(args) >= 2 && args[1].Type() == js.TypeObject {
		opts := args[1]
		if v := opts.Get("pattern"); v.Type() == js.TypeString {
			p, err := fr.ParseBayerPattern(v.String())
			if err != nil {
				return errorResult(err.Error())
			}
			params.Pattern = p
		}
		if v := opts.Get("gain"); v.Type() == js.TypeNumber {
			params.Gain = v.Float()
		}
		if v := opts.Get("rotate"); v.Type() == js.TypeBoolean {
			params.Rotate180 = v.Bool()
		}
		if v := opts.Get("annotate"); v.Type() == js.TypeBoolean {
			annotate = v.Bool()
		}
	}
	if err := params.Validate(); err != nil {
		return errorResult(err.Error())
	}

	frame, err := fr.ReadFitsFromBytes(copyBytes(args[0]))
	if err != nil {
		return errorResult("FITS parse error: " + err.Error())
	}

	var opts []fr.Option
	if annotate {
		opts = append(opts, fr.WithHeaderCaption())
	}
	img, err := fr.Develop(frame, params, opts...)
	if err != nil {
		return errorResult("render error: " + err.Error())
	}

	var buf bytes.Buffer
	if err := fr.EncodeImage(&buf, img, fr.FormatPNG); err != nil {
		return errorResult("encode error: " + err.Error())
	}

	uint8Array := js.Global().Get("Uint8Array").New(buf.Len())
	js.CopyBytesToJS(uint8Array, buf.Bytes())
	return uint8Array
}

func fitsInfo(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: fitsInfo(fileBytes)")
	}
	frame, err := fr.ReadFitsFromBytes(copyBytes(args[0]))
	if err != nil {
		return errorResult("FITS parse error: " + err.Error())
	}
	stats, err := fr.ComputeStats(frame)
	if err != nil {
		return errorResult(err.Error())
	}

	headers := make(map[string]interface{}, len(frame.Header.Headers))
	for k, v := range frame.Header.Headers {
		headers[k] = v
	}
	return js.ValueOf(map[string]interface{}{
		"width":   frame.Width,
		"height":  frame.Height,
		"bitpix":  frame.BitPix,
		"min":     stats.Min,
		"max":     stats.Max,
		"mean":    stats.Mean,
		"stddev":  stats.StdDev,
		"median":  stats.Median,
		"mad":     stats.MAD,
		"headers": headers,
	})
}

func copyBytes(jsBytes js.Value) []byte {
	length := jsBytes.Get("length").Int()
	fileBytes := make([]byte, length)
	js.CopyBytesToGo(fileBytes, jsBytes)
	return fileBytes
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
