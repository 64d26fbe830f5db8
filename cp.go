package kubectl

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CpOptions configures Cp.
type CpOptions struct {
	Namespace string

	// Container selects the container; defaults to the first container in
	// the pod spec.
	Container string
}

// Cp copies files between the local filesystem and a pod (similar to
// 'kubectl cp'). Exactly one of src and dst must be a remote spec of the
// form "pod:path"; local sources may contain glob patterns.
func (c *Client) Cp(ctx context.Context, src, dst string, opts CpOptions) error {
	srcPod, srcPath, srcRemote := splitCopySpec(src)
	dstPod, dstPath, dstRemote := splitCopySpec(dst)

	if srcRemote == dstRemote {
		return fmt.Errorf("%w: exactly one of %q and %q must be a pod:path spec", ErrBadCopySpec, src, dst)
	}

	namespace := namespaceOrDefault(opts.Namespace)

	if srcRemote {
		container, err := c.findContainer(ctx, namespace, srcPod, opts.Container, false)
		if err != nil {
			return err
		}
		c.logPodOperation("cp", namespace, srcPod, container)
		return c.copyFromPod(ctx, namespace, srcPod, container, srcPath, dstPath)
	}

	container, err := c.findContainer(ctx, namespace, dstPod, opts.Container, false)
	if err != nil {
		return err
	}
	c.logPodOperation("cp", namespace, dstPod, container)
	return c.copyToPod(ctx, namespace, dstPod, container, srcPath, dstPath)
}

// splitCopySpec splits a "pod:path" spec. Specs without a colon, or with a
// path-like prefix (absolute or relative), are local.
func splitCopySpec(spec string) (pod, filePath string, remote bool) {
	if strings.HasPrefix(spec, "/") || strings.HasPrefix(spec, ".") {
		return "", spec, false
	}
	pod, filePath, found := strings.Cut(spec, ":")
	if !found || pod == "" {
		return "", spec, false
	}
	return pod, filePath, true
}

// copyToPod tars the local files matching src and unpacks them in the pod
// directory dst through 'tar xf -' on the remote side.
func (c *Client) copyToPod(ctx context.Context, namespace, pod, container, src, dst string) error {
	matches, err := filepath.Glob(src)
	if err != nil {
		return fmt.Errorf("%w: invalid source pattern %q: %v", ErrBadCopySpec, src, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: no local files match %q", ErrBadCopySpec, src)
	}

	var archive bytes.Buffer
	if err := tarFiles(&archive, matches); err != nil {
		return err
	}

	command := []string{"tar", "xf", "-", "-C", dst}
	var stderr bytes.Buffer
	if err := c.execStream(ctx, namespace, pod, container, command, &archive, io.Discard, &stderr, false); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("failed to unpack archive in pod %s/%s: %s: %w", namespace, pod, strings.TrimSpace(stderr.String()), err)
		}
		return err
	}
	return nil
}

// copyFromPod streams 'tar cf - src' out of the pod and extracts the
// regular files locally under dst.
func (c *Client) copyFromPod(ctx context.Context, namespace, pod, container, src, dst string) error {
	command := []string{"tar", "cf", "-", src}
	var archive, stderr bytes.Buffer
	if err := c.execStream(ctx, namespace, pod, container, command, nil, &archive, &stderr, false); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("failed to archive %q in pod %s/%s: %s: %w", src, namespace, pod, strings.TrimSpace(stderr.String()), err)
		}
		return err
	}
	return untarFiles(&archive, dst)
}

// tarFiles writes the named regular files into a tar stream. Directories in
// the match set are walked recursively; archive entries carry base-relative
// names so they unpack flat at the destination.
func tarFiles(w io.Writer, paths []string) error {
	tw := tar.NewWriter(w)

	for _, root := range paths {
		base := filepath.Dir(root)
		err := filepath.Walk(root, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() && !info.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(base, file)
			if err != nil {
				return err
			}

			header, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			header.Name = filepath.ToSlash(rel)

			if err := tw.WriteHeader(header); err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = io.Copy(tw, f)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to archive %q: %w", root, err)
		}
	}

	return tw.Close()
}

// untarFiles extracts the regular files of a tar stream under dst. When dst
// is an existing directory each entry keeps its archive-relative path below
// it; otherwise a single-file archive is written to dst itself.
func untarFiles(r io.Reader, dst string) error {
	dstInfo, statErr := os.Stat(dst)
	dstIsDir := statErr == nil && dstInfo.IsDir()

	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if dstIsDir {
				if err := os.MkdirAll(filepath.Join(dst, filepath.FromSlash(path.Clean("/"+header.Name))), 0o755); err != nil {
					return err
				}
			}
		case tar.TypeReg:
			target := dst
			if dstIsDir {
				// Clean through a rooted path so entries cannot
				// escape the destination directory.
				target = filepath.Join(dst, filepath.FromSlash(path.Clean("/"+header.Name)))
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return err
				}
			}

			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("failed to extract %q: %w", header.Name, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
}
