package cache

const SetIfGenUnchanged = setIfGenUnchanged
