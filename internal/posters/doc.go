// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package posters extracts visual features from downloaded poster images.
//
// The analyzer decodes JPEG and PNG posters with the stdlib image codecs
// and computes dominant colors, brightness, contrast, an edge-density
// text estimate, and coarse style tags. Face detection is not performed;
// FaceCount is always zero. A Scanner drains the queue of movies whose
// poster file is on disk but has no stored analysis yet.
package posters
