package data

import "sort"

//StringSet is a set of strings
type StringSet map[string]struct{}

//Items returns the strings in the set as a slice.
func (s StringSet) Items() []string {
	retVal := make([]string, 0, len(s))
	for str := range s {
		retVal = append(retVal, str)
	}
	return retVal
}

//SortedItems returns the strings in the set in ascending order
func (s StringSet) SortedItems() []string {
	retVal := s.Items()
	sort.Strings(retVal)
	return retVal
}

//Insert adds a string to the set
func (s StringSet) Insert(str string) {
	s[str] = struct{}{}
}

//Contains checks if a given string is in the set
func (s StringSet) Contains(str string) bool {
	_, ok := s[str]
	return ok
}

//Intersects checks if the two sets share at least one string
func (s StringSet) Intersects(other StringSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for str := range small {
		if large.Contains(str) {
			return true
		}
	}
	return false
}

//IntSet is a set of integers
type IntSet map[int]struct{}

//Items returns the integers in the set as a slice.
func (s IntSet) Items() []int {
	retVal := make([]int, 0, len(s))
	for intVal := range s {
		retVal = append(retVal, intVal)
	}
	return retVal
}

//SortedItems returns the integers in the set in ascending order
func (s IntSet) SortedItems() []int {
	retVal := s.Items()
	sort.Ints(retVal)
	return retVal
}

//Insert adds a integer to the set
func (s IntSet) Insert(intVal int) {
	s[intVal] = struct{}{}
}

//Contains checks if a given integer is in the set
func (s IntSet) Contains(intVal int) bool {
	_, ok := s[intVal]
	return ok
}
