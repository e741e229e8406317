package geometry

import "fmt"

// Pack lays models[start:] out after the geometry already described by prior
// and returns the layout of the whole list.
//
// With start == 0 prior is ignored and every offset is computed from zero.
// With start > 0 prior must be the layout of models[:start]; running totals are
// seeded from the end of model start-1 so existing data keeps its place.
//
// Models with a zero ID, no vertices or no indices are recorded as skipped and
// do not advance the offsets. Indices are rebased by the model's vertex offset,
// except for the model at position 0 whose indices are already zero-based.
//
// The input models are never modified. All models being packed are validated
// before any output is produced, so a returned error means no layout at all.
func Pack(models []Model, start int, prior Layout) (Layout, error) {
	if start < 0 || start > len(models) {
		return Layout{}, fmt.Errorf("pack: start %d outside model list of %d", start, len(models))
	}
	if start == 0 {
		prior = Layout{}
	} else if len(prior.Placements) != start {
		return Layout{}, fmt.Errorf("pack: prior layout covers %d models, append starts at %d", len(prior.Placements), start)
	}

	for i := start; i < len(models); i++ {
		if err := validate(i, &models[i]); err != nil {
			return Layout{}, err
		}
	}

	var vertexBase, indexBase uint32
	if start > 0 {
		prev := prior.Placements[start-1]
		vertexBase = prev.VertexEnd()
		indexBase = prev.IndexEnd()
		if len(prior.Vertices) < VertexStride*int(vertexBase) || len(prior.Indices) < int(indexBase) {
			return Layout{}, fmt.Errorf("pack: prior layout buffers shorter than its placements")
		}
	}

	totalVertices, totalIndices := vertexBase, indexBase
	for i := start; i < len(models); i++ {
		if models[i].Drawable() {
			totalVertices += uint32(models[i].VertexCount())
			totalIndices += uint32(models[i].IndexCount())
		}
	}

	out := Layout{
		Vertices:    make([]float32, VertexStride*int(totalVertices)),
		Indices:     make([]uint32, totalIndices),
		Placements:  make([]Placement, 0, len(models)),
		Ranges:      make([]DrawRange, 0, len(prior.Ranges)),
		firstVertex: vertexBase,
		firstIndex:  indexBase,
	}
	copy(out.Vertices, prior.Vertices[:VertexStride*int(vertexBase)])
	copy(out.Indices, prior.Indices[:indexBase])
	out.Placements = append(out.Placements, prior.Placements[:start]...)
	out.Ranges = append(out.Ranges, prior.Ranges...)

	v, ix := vertexBase, indexBase
	for i := start; i < len(models); i++ {
		m := &models[i]
		if !m.Drawable() {
			out.Placements = append(out.Placements, Placement{VertexOffset: v, IndexOffset: ix, Skipped: true})
			continue
		}

		p := Placement{
			VertexOffset: v,
			IndexOffset:  ix,
			VertexCount:  uint32(m.VertexCount()),
			IndexCount:   uint32(m.IndexCount()),
		}
		out.Placements = append(out.Placements, p)

		copy(out.Vertices[VertexStride*int(v):], m.Vertices[:VertexStride*m.VertexCount()])

		dst := out.Indices[ix:p.IndexEnd()]
		if i == 0 {
			copy(dst, m.Indices)
		} else {
			for k, idx := range m.Indices {
				dst[k] = idx + v
			}
		}

		for _, r := range m.Ranges {
			if r.IndexCount == 0 {
				continue
			}
			out.Ranges = append(out.Ranges, DrawRange{
				Model:       i,
				Material:    r.Material,
				IndexOffset: ix + r.IndexOffset,
				IndexCount:  r.IndexCount,
			})
		}

		v = p.VertexEnd()
		ix = p.IndexEnd()
	}

	out.VertexCount = v
	out.IndexCount = ix
	return out, nil
}

// validate checks one model against the invariants Pack relies on.
func validate(pos int, m *Model) error {
	if len(m.Vertices)%VertexStride != 0 {
		return &IntegrityError{Model: pos, ModelID: m.ID, Err: ErrMalformedVertices,
			Detail: fmt.Sprintf("%d scalars", len(m.Vertices))}
	}
	if !m.Drawable() {
		return nil
	}

	n := uint32(m.VertexCount())
	for k, idx := range m.Indices {
		if idx >= n {
			return &IntegrityError{Model: pos, ModelID: m.ID, Err: ErrIndexOutOfRange,
				Detail: fmt.Sprintf("index[%d] = %d, vertex count %d", k, idx, n)}
		}
	}

	for k, r := range m.Ranges {
		if uint64(r.IndexOffset)+uint64(r.IndexCount) > uint64(len(m.Indices)) {
			return &IntegrityError{Model: pos, ModelID: m.ID, Err: ErrRangeOutOfBounds,
				Detail: fmt.Sprintf("range %d covers [%d, %d) of %d indices", k, r.IndexOffset, r.IndexOffset+r.IndexCount, len(m.Indices))}
		}
	}
	return nil
}
