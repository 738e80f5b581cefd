// Package bench produces the image pairs listed in a results manifest.
//
// For every image of a PNG suite directory the original file is copied to
// {name}-orig.png and a re-encoded copy made by a Codec is written to
// {name}-spng.png. Verify then decodes both files and compares them pixel by
// pixel in non-premultiplied RGBA64, records SHA3-256 digests and whether
// each file carries EXIF metadata.
//
// Suite files whose name starts with "x" are deliberately corrupt and are
// skipped by Collect.
package bench
