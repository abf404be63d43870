package audit

import "reflect"

// FieldDiff compares two flat snapshots of an entity and returns the prior
// and new values of every field that changed. Pointer values are compared by
// the value they point at. Both maps are nil when nothing changed, so UPDATE
// entries for no-op requests carry no old/new section.
func FieldDiff(before, after map[string]interface{}) (oldVals, newVals map[string]interface{}) {
	for key, newVal := range after {
		oldVal := before[key]
		if reflect.DeepEqual(oldVal, newVal) {
			continue
		}
		if oldVals == nil {
			oldVals = make(map[string]interface{})
			newVals = make(map[string]interface{})
		}
		oldVals[key] = oldVal
		newVals[key] = newVal
	}
	return oldVals, newVals
}
