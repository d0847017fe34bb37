// Inspection tool that dumps the structure of a snapshot container:
// groups, datasets with shape/type/layout, and scalar attributes.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hpcio/snapio/hdf5"
	"github.com/hpcio/snapio/internal/dtype"
)

var showData = flag.Bool("data", false, "print dataset contents")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: snapinspect [-data] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	r, err := hdf5.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapinspect: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	if err := walk(r, "/", ""); err != nil {
		fmt.Fprintf(os.Stderr, "snapinspect: %v\n", err)
		os.Exit(1)
	}
}

func walk(r *hdf5.Reader, path, indent string) error {
	info, err := r.Stat(path)
	if err != nil {
		return err
	}

	if info.Group {
		fmt.Printf("%s%s\n", indent, groupLabel(path))
	} else {
		desc := fmt.Sprintf("%s %v", info.Kind, info.Dims)
		if info.Chunked {
			desc += " chunked"
		}
		if len(info.Filters) > 0 {
			desc += " [" + strings.Join(info.Filters, ",") + "]"
		}
		fmt.Printf("%s%s  %s\n", indent, baseName(path), desc)
	}

	attrs, err := r.ListAttributes(path)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		fmt.Printf("%s  @%s = %s (%s)\n", indent, a.Name, formatValue(a.Kind, a.Value), a.Kind)
	}

	if !info.Group {
		if *showData {
			if err := printData(r, path, indent+"  "); err != nil {
				return err
			}
		}
		return nil
	}

	children, err := r.ListChildren(path)
	if err != nil {
		return err
	}
	for _, name := range children {
		if err := walk(r, joinPath(path, name), indent+"  "); err != nil {
			return err
		}
	}
	return nil
}

func printData(r *hdf5.Reader, path, indent string) error {
	raw, _, kind, err := r.ReadDataset(path)
	if err != nil {
		return err
	}
	elemSize := int(kind.Size())
	for off := 0; off+elemSize <= len(raw); off += elemSize {
		fmt.Printf("%s%s\n", indent, formatValue(kind, raw[off:off+elemSize]))
	}
	return nil
}

func formatValue(kind dtype.Kind, value []byte) string {
	format := func(vals any, err error) string {
		if err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		return strings.Trim(fmt.Sprint(vals), "[]")
	}
	switch kind {
	case dtype.Int32:
		v, err := dtype.DecodeSlice[int32](value, kind)
		return format(v, err)
	case dtype.Int64:
		v, err := dtype.DecodeSlice[int64](value, kind)
		return format(v, err)
	case dtype.Uint32:
		v, err := dtype.DecodeSlice[uint32](value, kind)
		return format(v, err)
	case dtype.Uint64:
		v, err := dtype.DecodeSlice[uint64](value, kind)
		return format(v, err)
	case dtype.Float32:
		v, err := dtype.DecodeSlice[float32](value, kind)
		return format(v, err)
	default:
		v, err := dtype.DecodeSlice[float64](value, kind)
		return format(v, err)
	}
}

func groupLabel(path string) string {
	if path == "/" {
		return "/"
	}
	return baseName(path) + "/"
}

func baseName(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return parts[len(parts)-1]
}

func joinPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}
