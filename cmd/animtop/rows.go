package main

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/component"
)

type propertyRow struct {
	entity   string
	key      string
	value    string
	animated bool
	swatch   *tcell.Color
}

// propertyRows lists every property of every named entity, sorted by entity
// then key. Animatable values with three or four components also get a
// colour swatch.
func propertyRows(w *ecs.World) []propertyRow {
	var rows []propertyRow
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		_, animated := w.PropertyValue(e, component.AnimationKey)
		for _, key := range w.Properties(e) {
			if key == component.AnimationKey {
				continue
			}
			raw, _ := w.PropertyValue(e, key)
			row := propertyRow{entity: n.Value, key: key, animated: animated}
			switch v := raw.(type) {
			case anim.Animatable:
				row.value = v.String()
				if v.Len() == 3 || v.Len() == 4 {
					c := tcell.NewRGBColor(channel(v.At(0)), channel(v.At(1)), channel(v.At(2)))
					row.swatch = &c
				}
			default:
				row.value = fmt.Sprint(v)
			}
			rows = append(rows, row)
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].entity != rows[j].entity {
			return rows[i].entity < rows[j].entity
		}
		return rows[i].key < rows[j].key
	})
	return rows
}

func channel(f float32) int32 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return int32(f*255 + 0.5)
}
